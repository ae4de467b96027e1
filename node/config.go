// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package node

import (
	"bytes"
	"time"

	"github.com/nyeinchan/promisechain/runtime"
)

type Config struct {
	Debug   bool
	Datadir string
	APIPort int

	// how often queued async calls are resolved
	ResolveInterval time.Duration

	// addresses the promises contract and its two targets live at
	MainContract   []byte
	FirstContract  []byte
	SecondContract []byte

	RuntimeConfig runtime.Config
}

var DefaultConfig = Config{
	APIPort:         9040,
	ResolveInterval: time.Second,
	MainContract:    bytes.Repeat([]byte{3}, 32),
	FirstContract:   bytes.Repeat([]byte{1}, 32),
	SecondContract:  bytes.Repeat([]byte{2}, 32),
	RuntimeConfig:   runtime.DefaultConfig,
}
