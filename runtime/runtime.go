// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

// Package runtime executes contract invocations one at a time and
// routes asynchronous cross contract calls. An invocation either
// commits all of its state changes or none of them.
package runtime

import (
	"errors"
	"sync"
	"time"

	"github.com/nyeinchan/promisechain/calldata"
	"github.com/nyeinchan/promisechain/core"
	"github.com/nyeinchan/promisechain/emitter"
	"github.com/nyeinchan/promisechain/logger"
	"github.com/nyeinchan/promisechain/runtime/contract"
	"github.com/nyeinchan/promisechain/storage"
)

type Config struct {
	InvokeTimeout time.Duration

	// calls issued with less gas than this resolve to the fail callback
	MinAsyncCallGas uint64
}

var DefaultConfig = Config{
	InvokeTimeout:   10 * time.Second,
	MinAsyncCallGas: 2000,
}

// Runtime is the contract execution environment
type Runtime struct {
	strg   *storage.Storage
	config Config

	registry *contractRegistry
	router   *asyncRouter

	mtx sync.Mutex
}

func New(strg *storage.Storage, config Config) *Runtime {
	rt := &Runtime{
		strg:   strg,
		config: config,
	}
	rt.registry = newContractRegistry()
	rt.router = newAsyncRouter(strg, rt.registry, config.MinAsyncCallGas)
	return rt
}

// Register deploys a contract instance at the given address
func (rt *Runtime) Register(addr []byte, cc contract.Contract) error {
	return rt.registry.register(addr, cc)
}

// Invoke executes one signed invocation and returns its receipt.
// Created async calls are queued for later resolution.
func (rt *Runtime) Invoke(ivc *core.Invocation) *core.Receipt {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	start := time.Now()
	rcp := core.NewReceipt().SetInvocationHash(ivc.Hash())

	output, err := rt.invokeWithTimeout(ivc)
	if err != nil {
		rcp.SetError(err.Error())
	} else {
		rcp.SetOutput(output)
	}
	rcp.SetElapsed(time.Since(start).Seconds())

	if err := rt.strg.Commit(nil, rcp); err != nil {
		logger.I().Fatalw("commit receipt failed", "error", err)
	}
	return rcp
}

func (rt *Runtime) invokeWithTimeout(ivc *core.Invocation) ([][]byte, error) {
	type result struct {
		ctx *callContext
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		ctx, err := rt.invokeInvocation(ivc)
		resultCh <- result{ctx, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		rt.commitInvocation(res.ctx, ivc.CodeAddr())
		return res.ctx.finished, nil

	case <-time.After(rt.config.InvokeTimeout):
		// the abandoned run keeps only its in-memory tracker,
		// nothing of it reaches storage
		return nil, errors.New("invocation execution timeout")
	}
}

func (rt *Runtime) invokeInvocation(ivc *core.Invocation) (*callContext, error) {
	if err := ivc.Validate(); err != nil {
		return nil, err
	}
	cc, err := rt.registry.getInstance(ivc.CodeAddr())
	if err != nil {
		return nil, err
	}
	method, args, err := calldata.Decode(ivc.Input())
	if err != nil {
		return nil, err
	}
	ctx := &callContext{
		caller: ivc.Sender().Bytes(),
		method: method,
		args:   args,
		State:  newStateTracker(&storageState{rt.strg}, ivc.CodeAddr()),
	}
	if err := invokeContract(cc, ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (rt *Runtime) commitInvocation(ctx *callContext, initiator []byte) {
	issued := make([]issuedCall, len(ctx.asyncCalls))
	for i, call := range ctx.asyncCalls {
		issued[i] = issuedCall{initiator: initiator, call: call}
	}
	rt.router.commit(ctx.State.(*stateTracker), issued)
}

// QueryData type
type QueryData struct {
	CodeAddr []byte `json:"codeAddr"`
	Input    []byte `json:"input"`
}

// Query runs an invocation without caller and discards all state
// changes and async calls. It returns the finished values.
func (rt *Runtime) Query(query *QueryData) ([][]byte, error) {
	cc, err := rt.registry.getInstance(query.CodeAddr)
	if err != nil {
		return nil, err
	}
	method, args, err := calldata.Decode(query.Input)
	if err != nil {
		return nil, err
	}
	ctx := &callContext{
		method: method,
		args:   args,
		State:  newStateTracker(&storageState{rt.strg}, query.CodeAddr),
	}
	if err := invokeContract(cc, ctx); err != nil {
		return nil, err
	}
	return ctx.finished, nil
}

// GetState reads committed contract state directly
func (rt *Runtime) GetState(codeAddr, key []byte) []byte {
	return rt.strg.GetState(concatBytes(codeAddr, key))
}

// ResolveNext resolves the oldest pending async call
func (rt *Runtime) ResolveNext() (*Resolution, error) {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()
	return rt.router.resolveNext()
}

// ResolveRound resolves every call pending at the start of the round.
// Calls issued during the round stay queued for the next one.
func (rt *Runtime) ResolveRound() ([]*Resolution, error) {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	count := rt.strg.PendingCallCount()
	ret := make([]*Resolution, 0, count)
	for i := uint64(0); i < count; i++ {
		res, err := rt.router.resolveNext()
		if err != nil {
			return ret, err
		}
		ret = append(ret, res)
	}
	return ret, nil
}

// PendingCallCount returns the number of queued async calls
func (rt *Runtime) PendingCallCount() uint64 {
	return rt.strg.PendingCallCount()
}

// PendingCalls returns the queued async calls in issue order
func (rt *Runtime) PendingCalls() ([]*QueuedCall, error) {
	return rt.router.pendingCalls()
}

// SubscribeResolutions subscribes to resolution events
func (rt *Runtime) SubscribeResolutions(buffer int) *emitter.Subscription {
	return rt.router.resolutions.Subscribe(buffer)
}

// storageState adapts committed storage as base state for trackers
type storageState struct {
	strg *storage.Storage
}

var _ StateRO = (*storageState)(nil)

func (ss *storageState) GetState(key []byte) []byte {
	return ss.strg.GetState(key)
}
