// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nyeinchan/promisechain/calldata"
	"github.com/nyeinchan/promisechain/emitter"
	"github.com/nyeinchan/promisechain/logger"
	"github.com/nyeinchan/promisechain/runtime/contract"
	"github.com/nyeinchan/promisechain/storage"
)

var ErrNoPendingCalls = errors.New("no pending calls")

var errContractPanic = errors.New("contract panic")

// QueuedCall is an async call waiting for resolution.
// The initiator address is kept so the callback can be routed back.
type QueuedCall struct {
	Initiator       []byte `json:"initiator"`
	GroupID         []byte `json:"groupID"`
	Dest            []byte `json:"dest"`
	Value           []byte `json:"value"`
	Payload         []byte `json:"payload"`
	SuccessCallback string `json:"successCallback"`
	FailCallback    string `json:"failCallback"`
	GasLimit        uint64 `json:"gasLimit"`
}

// Resolution describes the outcome of one resolved async call
type Resolution struct {
	CallID        uint64     `json:"callID"`
	GroupID       []byte     `json:"groupID"`
	Dest          []byte     `json:"dest"`
	ReturnCode    ReturnCode `json:"returnCode"`
	ReturnMessage string     `json:"returnMessage"`
	CallbackError string     `json:"callbackError"`
}

// issuedCall pairs a created async call with the contract that issued it
type issuedCall struct {
	initiator []byte
	call      *contract.AsyncCall
}

// asyncRouter queues issued async calls and resolves them later,
// each resolution running as its own independent invocation.
type asyncRouter struct {
	strg        *storage.Storage
	registry    *contractRegistry
	resolutions *emitter.Emitter
	minCallGas  uint64
}

func newAsyncRouter(strg *storage.Storage, registry *contractRegistry, minCallGas uint64) *asyncRouter {
	return &asyncRouter{
		strg:        strg,
		registry:    registry,
		resolutions: emitter.New(),
		minCallGas:  minCallGas,
	}
}

func (rtr *asyncRouter) enqueue(initiator []byte, call *contract.AsyncCall) error {
	qc := &QueuedCall{
		Initiator:       initiator,
		GroupID:         call.GroupID,
		Dest:            call.Dest,
		Payload:         call.Payload,
		SuccessCallback: call.SuccessCallback,
		FailCallback:    call.FailCallback,
		GasLimit:        call.GasLimit,
	}
	if call.Value != nil {
		qc.Value = call.Value.Bytes()
	}
	b, err := json.Marshal(qc)
	if err != nil {
		return err
	}
	id, err := rtr.strg.EnqueueCall(b)
	if err != nil {
		return err
	}
	logger.I().Debugw("queued async call",
		"id", id, "group", string(qc.GroupID), "payload", string(qc.Payload))
	return nil
}

func (rtr *asyncRouter) pendingCalls() ([]*QueuedCall, error) {
	blobs, err := rtr.strg.PendingCalls()
	if err != nil {
		return nil, err
	}
	ret := make([]*QueuedCall, len(blobs))
	for i, b := range blobs {
		qc := new(QueuedCall)
		if err := json.Unmarshal(b, qc); err != nil {
			return nil, err
		}
		ret[i] = qc
	}
	return ret, nil
}

// resolveNext resolves the oldest pending call.
// The destination contract runs first; its finished values become the
// success callback arguments, or a failure is reported to the fail
// callback as return code and message. Destination and callback run on
// trackers spawned from one root tracker, committed once per resolution;
// a failing run is never merged, so its writes stay out of storage.
func (rtr *asyncRouter) resolveNext() (*Resolution, error) {
	if rtr.strg.PendingCallCount() == 0 {
		return nil, ErrNoPendingCalls
	}
	id, data, err := rtr.strg.DequeueCall()
	if err != nil {
		return nil, err
	}
	qc := new(QueuedCall)
	if err := json.Unmarshal(data, qc); err != nil {
		return nil, err
	}

	res := &Resolution{
		CallID:  id,
		GroupID: qc.GroupID,
		Dest:    qc.Dest,
	}
	root := newStateTracker(&storageState{rtr.strg}, nil)
	issued := make([]issuedCall, 0)

	ctx, code, msg := rtr.executeCall(root, qc)
	res.ReturnCode = code
	res.ReturnMessage = msg

	method := qc.SuccessCallback
	var cbArgs [][]byte
	if code == ReturnOk {
		root.merge(ctx.State.(*stateTracker))
		issued = appendIssued(issued, qc.Dest, ctx.asyncCalls)
		cbArgs = ctx.finished
	} else {
		method = qc.FailCallback
		cbArgs = [][]byte{code.Bytes(), []byte(msg)}
	}

	cbCtx, cbErr := rtr.invokeCallback(root, qc, method, cbArgs)
	if cbErr != nil {
		res.CallbackError = cbErr.Error()
		logger.I().Warnw("callback failed",
			"callID", id, "error", cbErr)
	} else {
		root.merge(cbCtx.State.(*stateTracker))
		issued = appendIssued(issued, qc.Initiator, cbCtx.asyncCalls)
	}

	rtr.commit(root, issued)
	logger.I().Debugw("resolved async call",
		"callID", id, "code", res.ReturnCode.String())
	rtr.resolutions.Emit(res)
	return res, nil
}

// executeCall runs the destination contract on a tracker spawned from
// root and classifies the outcome. The context is nil unless it is Ok.
func (rtr *asyncRouter) executeCall(root *stateTracker, qc *QueuedCall) (*callContext, ReturnCode, string) {
	if qc.GasLimit < rtr.minCallGas {
		return nil, ReturnOutOfGas, "gas limit below minimum async call cost"
	}
	cc, err := rtr.registry.getInstance(qc.Dest)
	if err != nil {
		return nil, ReturnContractNotFound, err.Error()
	}
	method, args, err := calldata.Decode(qc.Payload)
	if err != nil {
		return nil, ReturnExecutionFailed, err.Error()
	}
	ctx := &callContext{
		caller: qc.Initiator,
		method: method,
		args:   args,
		State:  root.spawn(qc.Dest),
	}
	if err := invokeContract(cc, ctx); err != nil {
		return nil, classifyError(err), err.Error()
	}
	return ctx, ReturnOk, ""
}

func classifyError(err error) ReturnCode {
	switch {
	case errors.Is(err, contract.ErrMethodNotFound):
		return ReturnFunctionNotFound
	case errors.Is(err, errContractPanic):
		return ReturnExecutionFailed
	default:
		return ReturnUserError
	}
}

// invokeCallback runs the initiator's callback on its own spawned tracker
func (rtr *asyncRouter) invokeCallback(root *stateTracker, qc *QueuedCall, method string, args [][]byte) (*callContext, error) {
	cc, err := rtr.registry.getInstance(qc.Initiator)
	if err != nil {
		return nil, err
	}
	ctx := &callContext{
		caller: qc.Dest,
		method: method,
		args:   args,
		State:  root.spawn(qc.Initiator),
	}
	if err := invokeContract(cc, ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (rtr *asyncRouter) commit(trk *stateTracker, issued []issuedCall) {
	if err := rtr.strg.Commit(trk.getStateChanges(), nil); err != nil {
		logger.I().Fatalw("commit state failed", "error", err)
	}
	for _, ic := range issued {
		if err := rtr.enqueue(ic.initiator, ic.call); err != nil {
			logger.I().Fatalw("queue async call failed", "error", err)
		}
	}
}

func appendIssued(issued []issuedCall, initiator []byte, calls []*contract.AsyncCall) []issuedCall {
	for _, call := range calls {
		issued = append(issued, issuedCall{initiator: initiator, call: call})
	}
	return issued
}

func invokeContract(cc contract.Contract, ctx contract.CallContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %+v", errContractPanic, r)
		}
	}()
	return cc.Invoke(ctx)
}
