// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package contract

import (
	"errors"
	"math/big"
)

// ErrMethodNotFound reports a dispatch miss for the invoked method name
var ErrMethodNotFound = errors.New("method not found")

// AsyncCall describes one asynchronous call to another contract.
// It is handed to the runtime at creation and owned by the runtime
// until it resolves to the success or fail callback.
type AsyncCall struct {
	GroupID         []byte
	Dest            []byte
	Value           *big.Int
	Payload         []byte
	SuccessCallback string
	FailCallback    string
	GasLimit        uint64
}

// CallContext is the capability set the runtime provides to a contract
// for the duration of one invocation.
type CallContext interface {
	// Caller returns the address of the invoking party
	Caller() []byte

	// Method returns the invoked entry point name
	Method() string

	// Args returns the raw invocation arguments
	Args() [][]byte

	GetState(key []byte) []byte
	SetState(key, value []byte)

	// Finish yields a result value to the invoking context
	Finish(value []byte)

	// CreateAsyncCall submits an async call, fire and forget
	CreateAsyncCall(call *AsyncCall)
}

// all contracts implement the Contract interface
type Contract interface {
	Invoke(ctx CallContext) error
}
