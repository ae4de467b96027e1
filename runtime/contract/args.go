// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package contract

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrArgumentCount reports a violated fixed argument count.
// The runtime discards all state changes of the invocation.
var ErrArgumentCount = errors.New("wrong number of arguments")

// RequireArgs fails the invocation unless exactly n arguments were supplied
func RequireArgs(ctx CallContext, n int) error {
	if len(ctx.Args()) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, n, len(ctx.Args()))
	}
	return nil
}

// Uint64 interprets b as a big endian unsigned integer.
// Empty or missing values read as zero; longer values keep the low 8 bytes.
func Uint64(b []byte) uint64 {
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// Uint64Bytes encodes v as 8 big endian bytes
func Uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// FinishUint64 yields an unsigned integer result value
func FinishUint64(ctx CallContext, v uint64) {
	ctx.Finish(Uint64Bytes(v))
}
