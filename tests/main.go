// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/nyeinchan/promisechain/node"
	"github.com/nyeinchan/promisechain/runtime"
	"github.com/nyeinchan/promisechain/runtime/contract/promises"
	"github.com/nyeinchan/promisechain/storage"
)

const workDir = "./workdir"

func setupExperiments() []Experiment {
	expms := make([]Experiment, 0)
	expms = append(expms, &AnswerQuery{})
	expms = append(expms, &SingleForward{})
	expms = append(expms, &DualForward{})
	expms = append(expms, &CallerEcho{})
	expms = append(expms, &FailureRecording{})
	return expms
}

func main() {
	os.RemoveAll(workDir)
	check(os.Mkdir(workDir, 0755))

	env, err := newTestEnv(workDir)
	check(err)

	bold := color.New(color.Bold)
	boldGreen := color.New(color.Bold, color.FgGreen)
	boldRed := color.New(color.Bold, color.FgRed)

	failed := 0
	for _, expm := range setupExperiments() {
		bold.Printf("\n>> %s\n", expm.Name())
		if err := expm.Run(env); err != nil {
			boldRed.Printf("FAIL  %s\n", expm.Name())
			fmt.Println("   ", err)
			failed++
		} else {
			boldGreen.Printf("PASS  %s\n", expm.Name())
		}
	}
	fmt.Println()
	if failed > 0 {
		boldRed.Printf("%d experiment(s) failed\n", failed)
		os.Exit(1)
	}
	boldGreen.Println("all experiments passed")
}

type testEnv struct {
	runtime *runtime.Runtime
	config  node.Config
}

func newTestEnv(dir string) (*testEnv, error) {
	db, err := storage.NewDB(dir)
	if err != nil {
		return nil, err
	}
	config := node.DefaultConfig
	rt := runtime.New(storage.New(db), config.RuntimeConfig)

	pmsConfig := promises.Config{
		FirstContract:  config.FirstContract,
		SecondContract: config.SecondContract,
	}
	addrs := [][]byte{
		config.MainContract, config.FirstContract, config.SecondContract,
	}
	for _, addr := range addrs {
		if err := rt.Register(addr, promises.New(pmsConfig)); err != nil {
			return nil, err
		}
	}
	return &testEnv{runtime: rt, config: config}, nil
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
