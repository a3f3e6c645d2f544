// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"

	"github.com/bgl-labs/glyphs/codec"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Account is the unit of state. Every address implicitly holds an empty
// account owned by the system program until something is written to it.
type Account struct {
	Owner      codec.Address `json:"owner"`
	Lamports   uint64        `json:"lamports"`
	Executable bool          `json:"executable"`
	Data       []byte        `json:"data"`
}

// Empty returns true if [a] is indistinguishable from an address that was
// never written.
func (a *Account) Empty() bool {
	return a.Owner == codec.EmptyAddress && a.Lamports == 0 && !a.Executable && len(a.Data) == 0
}

func (a *Account) Copy() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Owner:      a.Owner,
		Lamports:   a.Lamports,
		Executable: a.Executable,
		Data:       data,
	}
}

func (a *Account) AddLamports(amount uint64) error {
	n, err := smath.Add(a.Lamports, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrLamportsOverflow, a.Lamports, amount)
	}
	a.Lamports = n
	return nil
}

func (a *Account) SubLamports(amount uint64) error {
	n, err := smath.Sub(a.Lamports, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientLamports, a.Lamports, amount)
	}
	a.Lamports = n
	return nil
}

// IsRentExempt returns true if [a] holds enough lamports for its data.
func (a *Account) IsRentExempt() bool {
	return a.Lamports >= MinimumBalance(len(a.Data))
}

// MinimumBalance returns the lamports required for an account holding
// [dataLen] bytes to be rent exempt.
func MinimumBalance(dataLen int) uint64 {
	return uint64(AccountStorageOverhead+dataLen) * LamportsPerByteYear * ExemptionThreshold
}

func EncodeAccount(a *Account) ([]byte, error) {
	if len(a.Data) > MaxAccountDataSize {
		return nil, ErrAccountDataTooLarge
	}
	p := codec.NewWriter(accountHeaderLen+len(a.Data), maxAccountLen)
	p.PackAddress(a.Owner)
	p.PackUint64(a.Lamports)
	p.PackBool(a.Executable)
	p.PackBytes(a.Data)
	return p.Bytes(), p.Err()
}

func DecodeAccount(b []byte) (*Account, error) {
	p := codec.NewReader(b, maxAccountLen)
	var a Account
	p.UnpackAddress(&a.Owner)
	a.Lamports = p.UnpackUint64(false)
	a.Executable = p.UnpackBool()
	p.UnpackBytes(MaxAccountDataSize, false, &a.Data)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidAccount, len(b)-p.Offset())
	}
	// Callers mutate Data in place, so it must not alias [b].
	a.Data = append([]byte(nil), a.Data...)
	return &a, nil
}
