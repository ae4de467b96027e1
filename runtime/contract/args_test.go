// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package contract

import (
	"testing"

	"gotest.tools/assert"
)

func TestUint64(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want uint64
	}{
		{"nil", nil, 0},
		{"empty", []byte{}, 0},
		{"single byte", []byte{42}, 42},
		{"two bytes", []byte{1, 0}, 256},
		{"full width", []byte{0, 0, 0, 0, 0, 0, 1, 1}, 257},
		{"keeps low bytes", []byte{9, 9, 0, 0, 0, 0, 0, 0, 0, 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Uint64(tt.b))
		})
	}
}

func TestUint64Bytes(t *testing.T) {
	assert.DeepEqual(t, []byte{0, 0, 0, 0, 0, 0, 0, 42}, Uint64Bytes(42))
	assert.Equal(t, uint64(300), Uint64(Uint64Bytes(300)))
}

func TestRequireArgs(t *testing.T) {
	ctx := new(MockCallContext)
	ctx.MockArgs = [][]byte{{1}, {2}}

	assert.NilError(t, RequireArgs(ctx, 2))
	assert.ErrorContains(t, RequireArgs(ctx, 3), "wrong number of arguments")
}
