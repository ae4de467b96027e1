// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import "math/big"

// ReturnCode classifies the outcome of a resolved async call.
// The runtime, never the contract, assigns these.
type ReturnCode uint64

const (
	ReturnOk               ReturnCode = 0
	ReturnFunctionNotFound ReturnCode = 1
	ReturnContractNotFound ReturnCode = 3
	ReturnUserError        ReturnCode = 4
	ReturnOutOfGas         ReturnCode = 5
	ReturnExecutionFailed  ReturnCode = 10
)

func (rc ReturnCode) String() string {
	switch rc {
	case ReturnOk:
		return "ok"
	case ReturnFunctionNotFound:
		return "function not found"
	case ReturnContractNotFound:
		return "contract not found"
	case ReturnUserError:
		return "user error"
	case ReturnOutOfGas:
		return "out of gas"
	case ReturnExecutionFailed:
		return "execution failed"
	default:
		return "unknown"
	}
}

// Bytes returns the minimal big endian encoding of the code
func (rc ReturnCode) Bytes() []byte {
	return new(big.Int).SetUint64(uint64(rc)).Bytes()
}
