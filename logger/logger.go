// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package logger

import (
	"log"

	"go.uber.org/zap"
)

var inst *zap.SugaredLogger

func init() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	inst = logger.Sugar()
}

// Set replaces the global logger instance
func Set(logger *zap.SugaredLogger) {
	inst = logger
}

// I returns the global logger instance
func I() *zap.SugaredLogger {
	return inst
}
