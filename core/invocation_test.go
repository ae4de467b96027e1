// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvocation(t *testing.T) {
	assert := assert.New(t)

	priv := GenerateKey(nil)
	ivc := NewInvocation().
		SetNonce(7).
		SetCodeAddr([]byte{1, 1, 1}).
		SetInput([]byte("answer")).
		Sign(priv)

	assert.NoError(ivc.Validate())
	assert.Equal(priv.PublicKey().Bytes(), ivc.Sender().Bytes())

	b, err := ivc.Marshal()
	assert.NoError(err)

	ivc2 := NewInvocation()
	assert.NoError(ivc2.Unmarshal(b))
	assert.NoError(ivc2.Validate())
	assert.Equal(ivc.Hash(), ivc2.Hash())
	assert.Equal(ivc.Input(), ivc2.Input())
}

func TestInvocationValidate(t *testing.T) {
	assert := assert.New(t)

	priv := GenerateKey(nil)
	ivc := NewInvocation().
		SetCodeAddr([]byte{2, 2, 2}).
		SetInput([]byte("answer")).
		Sign(priv)

	// mutating input after signing must invalidate the hash
	ivc.SetInput([]byte("tampered"))
	assert.Equal(ErrInvalidInvocHash, ivc.Validate())
}
