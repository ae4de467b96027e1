// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

// Package calldata encodes and decodes contract call payloads.
// A payload is the method name followed by '@' separated hex arguments,
// e.g. "transfer@0a0b@01". The method name itself is not hex encoded.
package calldata

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

const separator = '@'

var ErrEmptyMethod = errors.New("calldata: empty method name")

// Encode builds a call payload from method name and raw arguments
func Encode(method string, args ...[]byte) []byte {
	buf := bytes.NewBufferString(method)
	for _, arg := range args {
		buf.WriteByte(separator)
		buf.WriteString(hex.EncodeToString(arg))
	}
	return buf.Bytes()
}

// Decode splits a call payload into method name and raw arguments
func Decode(b []byte) (string, [][]byte, error) {
	tokens := bytes.Split(b, []byte{separator})
	method := string(tokens[0])
	if len(method) == 0 {
		return "", nil, ErrEmptyMethod
	}
	args := make([][]byte, 0, len(tokens)-1)
	for i, token := range tokens[1:] {
		arg, err := hex.DecodeString(string(token))
		if err != nil {
			return "", nil, fmt.Errorf("calldata: bad argument %d: %w", i, err)
		}
		args = append(args, arg)
	}
	return method, args, nil
}
