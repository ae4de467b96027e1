// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package main

import (
	"bytes"
	"fmt"

	"github.com/nyeinchan/promisechain/calldata"
	"github.com/nyeinchan/promisechain/core"
	"github.com/nyeinchan/promisechain/runtime"
	"github.com/nyeinchan/promisechain/runtime/contract"
	"github.com/nyeinchan/promisechain/runtime/contract/promises"
)

type Experiment interface {
	Name() string
	Run(env *testEnv) error
}

var keyStorageIndex = []byte("CurrentStorageIndex")

func successArgKey(index byte) []byte {
	return append([]byte("SuccessCallbackArg"), index)
}

func failArgKey(index byte) []byte {
	return append([]byte("FailCallbackArg"), index)
}

func invoke(env *testEnv, priv *core.PrivateKey, input []byte) (*core.Receipt, error) {
	ivc := core.NewInvocation().
		SetCodeAddr(env.config.MainContract).
		SetInput(input).
		Sign(priv)
	rcp := env.runtime.Invoke(ivc)
	if rcp.Error() != "" {
		return rcp, fmt.Errorf("invocation failed: %s", rcp.Error())
	}
	return rcp, nil
}

func recordedIndex(env *testEnv) uint64 {
	return contract.Uint64(
		env.runtime.GetState(env.config.MainContract, keyStorageIndex))
}

// AnswerQuery checks the fixed answer value
type AnswerQuery struct{}

func (expm *AnswerQuery) Name() string { return "answer query" }

func (expm *AnswerQuery) Run(env *testEnv) error {
	output, err := env.runtime.Query(&runtime.QueryData{
		CodeAddr: env.config.MainContract,
		Input:    calldata.Encode("answer"),
	})
	if err != nil {
		return err
	}
	if len(output) != 1 || contract.Uint64(output[0]) != 42 {
		return fmt.Errorf("want [42], got %v", output)
	}
	return nil
}

// SingleForward issues one async call and checks the recorded result
type SingleForward struct{}

func (expm *SingleForward) Name() string { return "single forward" }

func (expm *SingleForward) Run(env *testEnv) error {
	before := recordedIndex(env)

	if _, err := invoke(env, core.GenerateKey(nil),
		calldata.Encode("call_first_contract")); err != nil {
		return err
	}
	resList, err := env.runtime.ResolveRound()
	if err != nil {
		return err
	}
	if len(resList) != 1 || resList[0].ReturnCode != runtime.ReturnOk {
		return fmt.Errorf("unexpected resolutions %v", resList)
	}

	slot := env.runtime.GetState(env.config.MainContract, successArgKey(byte(before)))
	if contract.Uint64(slot) != 42 {
		return fmt.Errorf("recorded value = %d, want 42", contract.Uint64(slot))
	}
	if got := recordedIndex(env); got != before+1 {
		return fmt.Errorf("counter = %d, want %d", got, before+1)
	}
	return nil
}

// DualForward forwards two payloads to the two fixed targets
type DualForward struct{}

func (expm *DualForward) Name() string { return "dual forward" }

func (expm *DualForward) Run(env *testEnv) error {
	before := recordedIndex(env)

	_, err := invoke(env, core.GenerateKey(nil),
		calldata.Encode("call_first_and_second_contract",
			[]byte("answer"), []byte("answer")))
	if err != nil {
		return err
	}
	if count := env.runtime.PendingCallCount(); count != 2 {
		return fmt.Errorf("pending calls = %d, want 2", count)
	}
	resList, err := env.runtime.ResolveRound()
	if err != nil {
		return err
	}
	for _, res := range resList {
		if res.ReturnCode != runtime.ReturnOk {
			return fmt.Errorf("call %d resolved with %s", res.CallID, res.ReturnCode)
		}
	}
	if got := recordedIndex(env); got != before+2 {
		return fmt.Errorf("counter = %d, want %d", got, before+2)
	}
	return nil
}

// CallerEcho checks that call_caller targets the invoking address
type CallerEcho struct{}

func (expm *CallerEcho) Name() string { return "caller echo" }

func (expm *CallerEcho) Run(env *testEnv) error {
	priv := core.GenerateKey(nil)
	if err := env.runtime.Register(
		priv.PublicKey().Bytes(), promises.New(promises.Config{})); err != nil {
		return err
	}
	if _, err := invoke(env, priv, calldata.Encode("call_caller")); err != nil {
		return err
	}
	res, err := env.runtime.ResolveNext()
	if err != nil {
		return err
	}
	if !bytes.Equal(res.Dest, priv.PublicKey().Bytes()) {
		return fmt.Errorf("resolved dest %x, want caller address", res.Dest)
	}
	if res.ReturnCode != runtime.ReturnOk {
		return fmt.Errorf("resolved with %s", res.ReturnCode)
	}
	return nil
}

// FailureRecording routes a failed call to the fail callback
type FailureRecording struct{}

func (expm *FailureRecording) Name() string { return "failure recording" }

func (expm *FailureRecording) Run(env *testEnv) error {
	before := recordedIndex(env)

	// caller address has no contract, resolution must fail
	if _, err := invoke(env, core.GenerateKey(nil),
		calldata.Encode("call_caller")); err != nil {
		return err
	}
	res, err := env.runtime.ResolveNext()
	if err != nil {
		return err
	}
	if res.ReturnCode != runtime.ReturnContractNotFound {
		return fmt.Errorf("resolved with %s, want contract not found", res.ReturnCode)
	}

	code := env.runtime.GetState(env.config.MainContract, failArgKey(byte(before)))
	if !bytes.Equal(code, runtime.ReturnContractNotFound.Bytes()) {
		return fmt.Errorf("recorded code %x", code)
	}
	if got := recordedIndex(env); got != before+2 {
		return fmt.Errorf("counter = %d, want %d", got, before+2)
	}
	return nil
}
