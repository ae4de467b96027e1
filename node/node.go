// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package node

import (
	"encoding/base64"
	"log"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/nyeinchan/promisechain/logger"
	"github.com/nyeinchan/promisechain/runtime"
	"github.com/nyeinchan/promisechain/runtime/contract/promises"
	"github.com/nyeinchan/promisechain/storage"
)

type Node struct {
	config Config

	storage *storage.Storage
	runtime *runtime.Runtime
}

func Run(config Config) {
	node := new(Node)
	node.config = config
	node.setupLogger()
	node.setupComponents()
	logger.I().Infow("node setup done",
		"pending async calls", node.runtime.PendingCallCount())
	serveNodeAPI(node)
	node.resolveLoop()
}

func (node *Node) setupLogger() {
	var inst *zap.Logger
	var err error
	if node.config.Debug {
		inst, err = zap.NewDevelopment()
	} else {
		inst, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	logger.Set(inst.Sugar())
}

func (node *Node) setupComponents() {
	db, err := storage.NewDB(path.Join(node.config.Datadir, "db"))
	if err != nil {
		logger.I().Fatalw("setup storage failed", "error", err)
	}
	node.storage = storage.New(db)
	node.runtime = runtime.New(node.storage, node.config.RuntimeConfig)
	node.registerContracts()
}

func (node *Node) registerContracts() {
	pmsConfig := promises.Config{
		FirstContract:  node.config.FirstContract,
		SecondContract: node.config.SecondContract,
	}
	addrs := [][]byte{
		node.config.MainContract,
		node.config.FirstContract,
		node.config.SecondContract,
	}
	for _, addr := range addrs {
		if err := node.runtime.Register(addr, promises.New(pmsConfig)); err != nil {
			logger.I().Fatalw("register contract failed",
				"addr", base64.StdEncoding.EncodeToString(addr), "error", err)
		}
	}
}

// resolveLoop periodically resolves queued async calls.
// Each round resolves only calls pending when the round started.
func (node *Node) resolveLoop() {
	for range time.Tick(node.config.ResolveInterval) {
		resList, err := node.runtime.ResolveRound()
		if err != nil {
			logger.I().Errorw("resolve round failed", "error", err)
			continue
		}
		for _, res := range resList {
			logger.I().Infow("resolved async call",
				"callID", res.CallID,
				"group", string(res.GroupID),
				"code", res.ReturnCode.String(),
				"message", res.ReturnMessage)
		}
	}
}
