// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

// Package promises implements a contract that issues asynchronous calls
// to other contracts and records every callback resolution it receives
// under a single shared storage index.
package promises

import (
	"math/big"

	"github.com/nyeinchan/promisechain/runtime/contract"
)

var (
	keySuccessCallbackArg = []byte("SuccessCallbackArg")
	keyFailCallbackArg    = []byte("FailCallbackArg")
	keyStorageIndex       = []byte("CurrentStorageIndex")
)

var commonGroupID = []byte("testgroup")

const (
	methodAnswer    = "answer"
	successCallback = "success_callback"
	failCallback    = "fail_callback"

	asyncCallGas = 100_000
)

// Config holds the two pre-known target addresses
type Config struct {
	FirstContract  []byte
	SecondContract []byte
}

// Promises contract
type Promises struct {
	config Config
}

var _ contract.Contract = (*Promises)(nil)

func New(config Config) *Promises {
	return &Promises{config: config}
}

func (pms *Promises) Invoke(ctx contract.CallContext) error {
	switch ctx.Method() {

	case "answer":
		return invokeAnswer(ctx)

	case "call_caller":
		return pms.invokeCallCaller(ctx)

	case "call_first_contract":
		return pms.invokeCallFirstContract(ctx)

	case "call_first_and_second_contract":
		return pms.invokeCallFirstAndSecondContract(ctx)

	case "success_callback":
		return invokeSuccessCallback(ctx)

	case "fail_callback":
		return invokeFailCallback(ctx)

	default:
		return contract.ErrMethodNotFound
	}
}

func invokeAnswer(ctx contract.CallContext) error {
	contract.FinishUint64(ctx, 42)
	return nil
}

func (pms *Promises) invokeCallCaller(ctx contract.CallContext) error {
	pms.createAsyncCall(ctx, ctx.Caller(), []byte(methodAnswer))
	return nil
}

func (pms *Promises) invokeCallFirstContract(ctx contract.CallContext) error {
	pms.createAsyncCall(ctx, pms.config.FirstContract, []byte(methodAnswer))
	return nil
}

// receives the call payload for each target as arguments
func (pms *Promises) invokeCallFirstAndSecondContract(ctx contract.CallContext) error {
	if err := contract.RequireArgs(ctx, 2); err != nil {
		return err
	}
	args := ctx.Args()
	pms.createAsyncCall(ctx, pms.config.FirstContract, args[0])
	pms.createAsyncCall(ctx, pms.config.SecondContract, args[1])
	return nil
}

func (pms *Promises) createAsyncCall(ctx contract.CallContext, dest, payload []byte) {
	ctx.CreateAsyncCall(&contract.AsyncCall{
		GroupID:         commonGroupID,
		Dest:            dest,
		Value:           new(big.Int),
		Payload:         payload,
		SuccessCallback: successCallback,
		FailCallback:    failCallback,
		GasLimit:        asyncCallGas,
	})
}

// each argument is one value finished by the called contract
func invokeSuccessCallback(ctx contract.CallContext) error {
	index := contract.Uint64(ctx.GetState(keyStorageIndex))
	for _, arg := range ctx.Args() {
		value := contract.Uint64(arg)
		ctx.SetState(storageKey(keySuccessCallbackArg, index), contract.Uint64Bytes(value))
		index++
	}
	ctx.SetState(keyStorageIndex, contract.Uint64Bytes(index))
	return nil
}

// first argument is the error code, second the error message
func invokeFailCallback(ctx contract.CallContext) error {
	if err := contract.RequireArgs(ctx, 2); err != nil {
		return err
	}
	index := contract.Uint64(ctx.GetState(keyStorageIndex))
	for _, arg := range ctx.Args() {
		ctx.SetState(storageKey(keyFailCallbackArg, index), arg)
		index++
	}
	ctx.SetState(keyStorageIndex, contract.Uint64Bytes(index))
	return nil
}

// storageKey appends the index to the kind prefix, truncated to one byte.
// Indices past 255 wrap around and overwrite earlier slots of the same kind.
func storageKey(prefix []byte, index uint64) []byte {
	key := make([]byte, 0, len(prefix)+1)
	key = append(key, prefix...)
	return append(key, byte(index))
}
