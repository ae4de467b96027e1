// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/sha3"
)

// errors
var (
	ErrNilInvocation    = errors.New("nil invocation")
	ErrInvalidInvocHash = errors.New("invalid invocation hash")
	ErrInvalidSignature = errors.New("invalid signature")
)

type invocationData struct {
	Nonce     int64  `json:"nonce"`
	Sender    []byte `json:"sender"`
	CodeAddr  []byte `json:"codeAddr"`
	Input     []byte `json:"input"`
	Hash      []byte `json:"hash"`
	Signature []byte `json:"signature"`
}

// Invocation is one signed call into a contract.
// Input carries call-data (method name and arguments).
type Invocation struct {
	data   *invocationData
	sender *PublicKey
}

func NewInvocation() *Invocation {
	return &Invocation{
		data: new(invocationData),
	}
}

// Sum returns sha3 sum of the invocation
func (ivc *Invocation) Sum() []byte {
	h := sha3.New256()
	h.Write(uint64ToBytes(uint64(ivc.data.Nonce)))
	h.Write(ivc.data.Sender)
	h.Write(ivc.data.CodeAddr)
	h.Write(ivc.data.Input)
	return h.Sum(nil)
}

// Validate invocation
func (ivc *Invocation) Validate() error {
	if ivc.data == nil {
		return ErrNilInvocation
	}
	if !bytes.Equal(ivc.Sum(), ivc.data.Hash) {
		return ErrInvalidInvocHash
	}
	sig, err := DecodeSignature(ivc.data.Signature)
	if err != nil {
		return err
	}
	if !bytes.Equal(sig.PublicKey().Bytes(), ivc.data.Sender) {
		return ErrInvalidSignature
	}
	if !sig.Verify(ivc.data.Hash) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign sets sender, computes hash and signs the invocation
func (ivc *Invocation) Sign(priv *PrivateKey) *Invocation {
	ivc.sender = priv.PublicKey()
	ivc.data.Sender = priv.PublicKey().Bytes()
	ivc.data.Hash = ivc.Sum()
	ivc.data.Signature = priv.Sign(ivc.data.Hash).Bytes()
	return ivc
}

func (ivc *Invocation) Nonce() int64     { return ivc.data.Nonce }
func (ivc *Invocation) Hash() []byte     { return ivc.data.Hash }
func (ivc *Invocation) CodeAddr() []byte { return ivc.data.CodeAddr }
func (ivc *Invocation) Input() []byte    { return ivc.data.Input }

// Sender returns the sender public key, nil if not signed
func (ivc *Invocation) Sender() *PublicKey {
	if ivc.sender == nil && len(ivc.data.Sender) > 0 {
		ivc.sender = DecodePublicKey(ivc.data.Sender)
	}
	return ivc.sender
}

func (ivc *Invocation) SetNonce(val int64) *Invocation {
	ivc.data.Nonce = val
	return ivc
}

func (ivc *Invocation) SetCodeAddr(val []byte) *Invocation {
	ivc.data.CodeAddr = val
	return ivc
}

func (ivc *Invocation) SetInput(val []byte) *Invocation {
	ivc.data.Input = val
	return ivc
}

// Marshal encodes invocation as bytes
func (ivc *Invocation) Marshal() ([]byte, error) {
	return json.Marshal(ivc.data)
}

// Unmarshal decodes invocation from bytes
func (ivc *Invocation) Unmarshal(b []byte) error {
	data := new(invocationData)
	if err := json.Unmarshal(b, data); err != nil {
		return err
	}
	ivc.data = data
	ivc.sender = nil
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (ivc *Invocation) UnmarshalJSON(b []byte) error {
	return ivc.Unmarshal(b)
}

// MarshalJSON implements json.Marshaler
func (ivc *Invocation) MarshalJSON() ([]byte, error) {
	return ivc.Marshal()
}
