// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"github.com/nyeinchan/promisechain/runtime/contract"
)

// callContext carries one invocation through a contract.
// Finished values and created async calls are collected here and
// handled by the runtime after the contract returns.
type callContext struct {
	caller []byte
	method string
	args   [][]byte

	finished   [][]byte
	asyncCalls []*contract.AsyncCall

	State
}

var _ contract.CallContext = (*callContext)(nil)

func (ctx *callContext) Caller() []byte {
	return ctx.caller
}

func (ctx *callContext) Method() string {
	return ctx.method
}

func (ctx *callContext) Args() [][]byte {
	return ctx.args
}

func (ctx *callContext) Finish(value []byte) {
	ctx.finished = append(ctx.finished, value)
}

func (ctx *callContext) CreateAsyncCall(call *contract.AsyncCall) {
	ctx.asyncCalls = append(ctx.asyncCalls, call)
}
