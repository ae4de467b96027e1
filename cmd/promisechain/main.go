// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyeinchan/promisechain/node"
)

const (
	flagDebug           = "debug"
	flagDataDir         = "datadir"
	flagAPIPort         = "apiport"
	flagResolveInterval = "resolve-interval"
)

var rootCmd = &cobra.Command{
	Use:   "promisechain",
	Short: "Async cross contract call runtime",
	Run: func(cmd *cobra.Command, args []string) {
		config := node.DefaultConfig

		var err error
		config.Debug, err = cmd.Flags().GetBool(flagDebug)
		check(err)
		config.Datadir, err = cmd.Flags().GetString(flagDataDir)
		check(err)
		config.APIPort, err = cmd.Flags().GetInt(flagAPIPort)
		check(err)
		config.ResolveInterval, err = cmd.Flags().GetDuration(flagResolveInterval)
		check(err)

		node.Run(config)
	},
}

func main() {
	check(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().Bool(flagDebug, false, "debug mode")
	rootCmd.PersistentFlags().StringP(flagDataDir, "d", "", "node data directory")
	rootCmd.MarkPersistentFlagRequired(flagDataDir)

	rootCmd.Flags().IntP(flagAPIPort, "p", 9040, "api port")
	rootCmd.Flags().Duration(flagResolveInterval, time.Second,
		"interval between async call resolution rounds")
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
