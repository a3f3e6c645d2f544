// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

const AddressLen = 32

// Address is the 32 byte identity of an account. Its text form is base58.
type Address [AddressLen]byte

// EmptyAddress is also the identity of the system program
// ("11111111111111111111111111111111").
var EmptyAddress = Address{}

// ToAddress copies [b] into an Address. It fails if [b] is not exactly
// [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a base58 string into an Address.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return ToAddress(b)
}

// MustParseAddress is like [ParseAddress] but panics on error. It should only
// be used for compiled-in constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText returns the base58 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a base58-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
