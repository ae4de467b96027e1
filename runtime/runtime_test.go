// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nyeinchan/promisechain/calldata"
	"github.com/nyeinchan/promisechain/core"
	"github.com/nyeinchan/promisechain/runtime/contract"
	"github.com/nyeinchan/promisechain/runtime/contract/promises"
	"github.com/nyeinchan/promisechain/storage"
)

var (
	firstAddr  = bytes.Repeat([]byte{1}, 32)
	secondAddr = bytes.Repeat([]byte{2}, 32)
	mainAddr   = bytes.Repeat([]byte{3}, 32)

	keyStorageIndex = []byte("CurrentStorageIndex")
)

func successArgKey(index byte) []byte {
	return append([]byte("SuccessCallbackArg"), index)
}

func failArgKey(index byte) []byte {
	return append([]byte("FailCallbackArg"), index)
}

func newTestRuntime(t *testing.T, config Config) *Runtime {
	db, err := storage.NewInMemoryDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	rt := New(storage.New(db), config)
	pmsConfig := promises.Config{
		FirstContract:  firstAddr,
		SecondContract: secondAddr,
	}
	rt.Register(firstAddr, promises.New(pmsConfig))
	rt.Register(secondAddr, promises.New(pmsConfig))
	rt.Register(mainAddr, promises.New(pmsConfig))
	return rt
}

func invoke(rt *Runtime, priv *core.PrivateKey, codeAddr []byte, input []byte) *core.Receipt {
	ivc := core.NewInvocation().
		SetCodeAddr(codeAddr).
		SetInput(input).
		Sign(priv)
	return rt.Invoke(ivc)
}

func TestRuntime_QueryAnswer(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	output, err := rt.Query(&QueryData{
		CodeAddr: mainAddr,
		Input:    calldata.Encode("answer"),
	})

	assert.NoError(err)
	assert.Equal([][]byte{contract.Uint64Bytes(42)}, output)
	assert.EqualValues(0, rt.PendingCallCount())
}

func TestRuntime_InvokeUnknownContract(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	priv := core.GenerateKey(nil)
	rcp := invoke(rt, priv, bytes.Repeat([]byte{9}, 32), calldata.Encode("answer"))

	assert.Equal(ErrContractNotFound.Error(), rcp.Error())
}

func TestRuntime_CallFirstContract(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	priv := core.GenerateKey(nil)
	rcp := invoke(rt, priv, mainAddr, calldata.Encode("call_first_contract"))

	assert.Equal("", rcp.Error())
	assert.EqualValues(1, rt.PendingCallCount())
	assert.Nil(rt.GetState(mainAddr, keyStorageIndex),
		"nothing recorded before resolution")

	resList, err := rt.ResolveRound()
	assert.NoError(err)
	assert.Len(resList, 1)
	assert.Equal(ReturnOk, resList[0].ReturnCode)
	assert.Equal(firstAddr, resList[0].Dest)
	assert.EqualValues(0, rt.PendingCallCount())

	assert.Equal(contract.Uint64Bytes(42), rt.GetState(mainAddr, successArgKey(0)))
	assert.Equal(contract.Uint64Bytes(1), rt.GetState(mainAddr, keyStorageIndex))
}

func TestRuntime_CallFirstAndSecondContract(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)
	priv := core.GenerateKey(nil)

	rcp := invoke(rt, priv, mainAddr,
		calldata.Encode("call_first_and_second_contract", []byte("answer")))
	assert.NotEqual("", rcp.Error(), "one argument must be rejected")
	assert.EqualValues(0, rt.PendingCallCount(), "no call issued on failure")

	// first target answers, second target gets an unknown method
	rcp = invoke(rt, priv, mainAddr,
		calldata.Encode("call_first_and_second_contract",
			[]byte("answer"), []byte("no_such_method")))
	assert.Equal("", rcp.Error())
	assert.EqualValues(2, rt.PendingCallCount())

	pending, err := rt.PendingCalls()
	assert.NoError(err)
	assert.Equal(firstAddr, pending[0].Dest)
	assert.Equal([]byte("answer"), pending[0].Payload)
	assert.Equal(secondAddr, pending[1].Dest)
	assert.Equal([]byte("no_such_method"), pending[1].Payload)
	assert.Equal(pending[0].GroupID, pending[1].GroupID)

	resList, err := rt.ResolveRound()
	assert.NoError(err)
	assert.Len(resList, 2)
	assert.Equal(ReturnOk, resList[0].ReturnCode)
	assert.Equal(ReturnFunctionNotFound, resList[1].ReturnCode)

	// success slot 0, then fail slots 1 and 2, one shared index sequence
	assert.Equal(contract.Uint64Bytes(42), rt.GetState(mainAddr, successArgKey(0)))
	assert.Equal(ReturnFunctionNotFound.Bytes(), rt.GetState(mainAddr, failArgKey(1)))
	assert.Equal([]byte("method not found"), rt.GetState(mainAddr, failArgKey(2)))
	assert.Equal(contract.Uint64Bytes(3), rt.GetState(mainAddr, keyStorageIndex))
}

func TestRuntime_MalformedPayload(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)
	priv := core.GenerateKey(nil)

	// the first payload carries a non-hex argument
	invoke(rt, priv, mainAddr,
		calldata.Encode("call_first_and_second_contract",
			[]byte("answer@zz"), []byte("answer")))

	resList, err := rt.ResolveRound()
	assert.NoError(err)
	assert.Len(resList, 2)
	assert.Equal(ReturnExecutionFailed, resList[0].ReturnCode)
	assert.Equal(ReturnOk, resList[1].ReturnCode)

	assert.Equal(ReturnExecutionFailed.Bytes(), rt.GetState(mainAddr, failArgKey(0)))
}

type panickyContract struct{}

func (pc *panickyContract) Invoke(ctx contract.CallContext) error {
	panic("boom")
}

func TestRuntime_PanicInDestination(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	priv := core.GenerateKey(nil)
	rt.Register(priv.PublicKey().Bytes(), new(panickyContract))

	invoke(rt, priv, mainAddr, calldata.Encode("call_caller"))

	res, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(ReturnExecutionFailed, res.ReturnCode)
	assert.Contains(res.ReturnMessage, "boom")
	assert.Equal(ReturnExecutionFailed.Bytes(), rt.GetState(mainAddr, failArgKey(0)))
}

func TestRuntime_CallCaller(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	// a contract registered at the caller's own address answers the call
	priv := core.GenerateKey(nil)
	rt.Register(priv.PublicKey().Bytes(), promises.New(promises.Config{}))

	rcp := invoke(rt, priv, mainAddr, calldata.Encode("call_caller"))
	assert.Equal("", rcp.Error())

	res, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(ReturnOk, res.ReturnCode)
	assert.Equal(priv.PublicKey().Bytes(), res.Dest,
		"call must target the invoking address")

	// a different caller produces a different destination
	priv2 := core.GenerateKey(nil)
	rt.Register(priv2.PublicKey().Bytes(), promises.New(promises.Config{}))

	invoke(rt, priv2, mainAddr, calldata.Encode("call_caller"))
	res2, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(priv2.PublicKey().Bytes(), res2.Dest)
	assert.NotEqual(res.Dest, res2.Dest)
}

func TestRuntime_CallCallerUnknownAddress(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	// no contract lives at the caller address, resolution must fail
	priv := core.GenerateKey(nil)
	invoke(rt, priv, mainAddr, calldata.Encode("call_caller"))

	res, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(ReturnContractNotFound, res.ReturnCode)
	assert.Equal("", res.CallbackError)

	assert.Equal(ReturnContractNotFound.Bytes(), rt.GetState(mainAddr, failArgKey(0)))
	assert.Equal([]byte(ErrContractNotFound.Error()), rt.GetState(mainAddr, failArgKey(1)))
	assert.Equal(contract.Uint64Bytes(2), rt.GetState(mainAddr, keyStorageIndex))
}

func TestRuntime_OutOfGas(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig
	config.MinAsyncCallGas = 1_000_000 // above what the contract attaches
	rt := newTestRuntime(t, config)

	priv := core.GenerateKey(nil)
	invoke(rt, priv, mainAddr, calldata.Encode("call_first_contract"))

	res, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(ReturnOutOfGas, res.ReturnCode)
	assert.Equal(ReturnOutOfGas.Bytes(), rt.GetState(mainAddr, failArgKey(0)))
}

func TestRuntime_FailedInvocationLeavesNoState(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)
	priv := core.GenerateKey(nil)

	// direct fail_callback with a wrong argument count aborts with
	// no storage writes
	rcp := invoke(rt, priv, mainAddr, calldata.Encode("fail_callback", []byte("only-one")))

	assert.Contains(rcp.Error(), contract.ErrArgumentCount.Error())
	assert.Nil(rt.GetState(mainAddr, keyStorageIndex))
	assert.Nil(rt.GetState(mainAddr, failArgKey(0)))

	loaded, err := rt.strg.GetReceipt(rcp.InvocationHash())
	assert.NoError(err)
	assert.Equal(rcp.Error(), loaded.Error())
}

type markerContract struct{}

func (mc *markerContract) Invoke(ctx contract.CallContext) error {
	ctx.SetState([]byte("marker"), []byte("on"))
	contract.FinishUint64(ctx, 1)
	return nil
}

type faultyCallbackContract struct {
	target []byte
}

func (fc *faultyCallbackContract) Invoke(ctx contract.CallContext) error {
	switch ctx.Method() {
	case "go":
		ctx.CreateAsyncCall(&contract.AsyncCall{
			Dest:            fc.target,
			Payload:         []byte("mark"),
			SuccessCallback: "done",
			FailCallback:    "failed",
			GasLimit:        100_000,
		})
		return nil
	case "done":
		ctx.SetState([]byte("done"), []byte{1})
		return errors.New("broken callback")
	}
	return contract.ErrMethodNotFound
}

func TestRuntime_FailedCallbackLeavesNoCallbackState(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	markerAddr := bytes.Repeat([]byte{7}, 32)
	faultyAddr := bytes.Repeat([]byte{6}, 32)
	rt.Register(markerAddr, new(markerContract))
	rt.Register(faultyAddr, &faultyCallbackContract{target: markerAddr})

	rcp := invoke(rt, core.GenerateKey(nil), faultyAddr, calldata.Encode("go"))
	assert.Equal("", rcp.Error())

	res, err := rt.ResolveNext()
	assert.NoError(err)
	assert.Equal(ReturnOk, res.ReturnCode)
	assert.Contains(res.CallbackError, "broken callback")

	// the destination write survives, the failed callback write does not
	assert.Equal([]byte("on"), rt.GetState(markerAddr, []byte("marker")))
	assert.Nil(rt.GetState(faultyAddr, []byte("done")))
}

func TestRuntime_ResolutionEvents(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)
	priv := core.GenerateKey(nil)

	sub := rt.SubscribeResolutions(5)
	defer sub.Unsubscribe()

	invoke(rt, priv, mainAddr, calldata.Encode("call_first_contract"))
	rt.ResolveRound()

	select {
	case e := <-sub.Events():
		res := e.(*Resolution)
		assert.Equal(ReturnOk, res.ReturnCode)
		assert.Equal([]byte("testgroup"), res.GroupID)
	case <-time.After(time.Second):
		assert.Fail("no resolution event received")
	}
}

func TestRuntime_ResolveEmptyQueue(t *testing.T) {
	assert := assert.New(t)
	rt := newTestRuntime(t, DefaultConfig)

	_, err := rt.ResolveNext()
	assert.Equal(ErrNoPendingCalls, err)

	resList, err := rt.ResolveRound()
	assert.NoError(err)
	assert.Empty(resList)
}

type slowContract struct{}

func (sc *slowContract) Invoke(ctx contract.CallContext) error {
	ctx.SetState([]byte("written"), []byte{1})
	ctx.CreateAsyncCall(&contract.AsyncCall{
		Dest:            ctx.Caller(),
		Payload:         []byte("answer"),
		SuccessCallback: "success_callback",
		FailCallback:    "fail_callback",
		GasLimit:        100_000,
	})
	time.Sleep(200 * time.Millisecond)
	return nil
}

func TestRuntime_InvokeTimeout(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig
	config.InvokeTimeout = 20 * time.Millisecond
	rt := newTestRuntime(t, config)

	slowAddr := bytes.Repeat([]byte{8}, 32)
	rt.Register(slowAddr, new(slowContract))

	priv := core.GenerateKey(nil)
	rcp := invoke(rt, priv, slowAddr, calldata.Encode("anything"))

	assert.Contains(rcp.Error(), "timeout")

	// the abandoned run must not reach storage once it wakes up
	time.Sleep(300 * time.Millisecond)
	assert.Nil(rt.GetState(slowAddr, []byte("written")))
	assert.EqualValues(0, rt.PendingCallCount())
}
