// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hdevalence/ed25519consensus"

	"github.com/bgl-labs/glyphs/codec"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

// We use the ZIP-215 specification for ed25519 signature
// verification (https://zips.z.cash/zip-0215) because it provides
// an explicit validity criteria for signatures, supports batch
// verification, and is broadly compatible with signatures produced
// by almost all ed25519 implementations (which don't require
// canonically-encoded points).
const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// PrivateKeySeedLen is defined because ed25519.PrivateKey
	// is formatted as privateKey = seed|publicKey. We use this const
	// to extract the publicKey below.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize

	MinBatchSize = 4
)

var (
	EmptyPublicKey  = [ed25519.PublicKeySize]byte{}
	EmptyPrivateKey = [ed25519.PrivateKeySize]byte{}
	EmptySignature  = [ed25519.SignatureSize]byte{}
)

// GeneratePrivateKey returns a Ed25519 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PublicKey returns a PublicKey associated with the Ed25519 PrivateKey p.
// The PublicKey is the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

// Address returns the account address controlled by p.
func (p PrivateKey) Address() codec.Address {
	return p.PublicKey().Address()
}

// ToHex converts a PrivateKey to a hex string.
func (p PrivateKey) ToHex() string {
	return hex.EncodeToString(p[:])
}

// Address returns the account address of p. Account addresses are the raw
// public key bytes.
func (p PublicKey) Address() codec.Address {
	return codec.Address(p)
}

// PublicKeyFromAddress is the inverse of [PublicKey.Address].
func PublicKeyFromAddress(a codec.Address) PublicKey {
	return PublicKey(a)
}

// Sign returns a valid signature for msg using pk.
func Sign(msg []byte, pk PrivateKey) Signature {
	sig := ed25519.Sign(pk[:], msg)
	return Signature(sig)
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}

type Batch struct {
	bv ed25519consensus.BatchVerifier
}

func NewBatch(size int) *Batch {
	return &Batch{bv: ed25519consensus.NewPreallocatedBatchVerifier(size)}
}

func (b *Batch) Add(msg []byte, p PublicKey, s Signature) {
	b.bv.Add(p[:], msg, s[:])
}

func (b *Batch) Verify() bool {
	return b.bv.Verify()
}

// HexToKey converts a hexadecimal encoded key into a PrivateKey.
func HexToKey(key string) (PrivateKey, error) {
	bytes, err := codec.LoadHex(key, PrivateKeyLen)
	if err != nil {
		return EmptyPrivateKey, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return PrivateKey(bytes), nil
}

// LoadKeypairFile reads a key stored as a JSON array of 64 bytes, the
// format written by the solana-keygen tool.
func LoadKeypairFile(filename string) (PrivateKey, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return EmptyPrivateKey, err
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return EmptyPrivateKey, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	if len(ints) != PrivateKeyLen {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	var pk PrivateKey
	for i, v := range ints {
		if v < 0 || v > 255 {
			return EmptyPrivateKey, ErrInvalidPrivateKey
		}
		pk[i] = byte(v)
	}
	// The public half must match the seed.
	if PrivateKey(ed25519.NewKeyFromSeed(pk[:PrivateKeySeedLen])) != pk {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	return pk, nil
}

// SaveKeypairFile writes p in the format read by [LoadKeypairFile].
func (p PrivateKey) SaveKeypairFile(filename string) error {
	ints := make([]int, PrivateKeyLen)
	for i, b := range p {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, raw, 0o600)
}
