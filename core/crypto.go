// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// AddressSize is the byte length of a contract or account address.
// Addresses are raw ed25519 public keys.
const AddressSize = ed25519.PublicKeySize

// PublicKey type
type PublicKey struct {
	key ed25519.PublicKey
}

// DecodePublicKey decodes raw bytes to PublicKey
func DecodePublicKey(b []byte) *PublicKey {
	return &PublicKey{key: b}
}

// Equal checks whether pub and x has the same value
func (pub *PublicKey) Equal(x *PublicKey) bool {
	return pub.key.Equal(x.key)
}

// Bytes return raw bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key
}

func (pub *PublicKey) String() string {
	return base64.StdEncoding.EncodeToString(pub.key)
}

// Signature type
type Signature struct {
	data   []byte
	pubKey *PublicKey
}

// DecodeSignature decodes raw bytes to Signature
func DecodeSignature(b []byte) (*Signature, error) {
	if len(b) != ed25519.SignatureSize+ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid signature length %d", len(b))
	}
	return &Signature{
		data:   b[:ed25519.SignatureSize],
		pubKey: DecodePublicKey(b[ed25519.SignatureSize:]),
	}, nil
}

// Bytes returns raw bytes
func (sig *Signature) Bytes() []byte {
	return append(sig.data, sig.pubKey.key...)
}

// PublicKey returns the signer public key
func (sig *Signature) PublicKey() *PublicKey {
	return sig.pubKey
}

// Verify verifies the signature over msg
func (sig *Signature) Verify(msg []byte) bool {
	return ed25519.Verify(sig.pubKey.key, msg, sig.data)
}

// PrivateKey type
type PrivateKey struct {
	key    ed25519.PrivateKey
	pubKey PublicKey
}

// GenerateKey generates a new PrivateKey from the given entropy source.
// crypto/rand is used when reader is nil.
func GenerateKey(reader io.Reader) *PrivateKey {
	if reader == nil {
		reader = rand.Reader
	}
	_, key, err := ed25519.GenerateKey(reader)
	if err != nil {
		panic(err)
	}
	return DecodePrivateKey(key)
}

// DecodePrivateKey decodes raw bytes to PrivateKey
func DecodePrivateKey(b []byte) *PrivateKey {
	priv := &PrivateKey{key: b}
	priv.pubKey.key = priv.key.Public().(ed25519.PublicKey)
	return priv
}

// Bytes return raw bytes
func (priv *PrivateKey) Bytes() []byte {
	return priv.key
}

// PublicKey returns corresponding public key
func (priv *PrivateKey) PublicKey() *PublicKey {
	return &priv.pubKey
}

// Sign signs the message
func (priv *PrivateKey) Sign(msg []byte) *Signature {
	return &Signature{ed25519.Sign(priv.key, msg), &priv.pubKey}
}
