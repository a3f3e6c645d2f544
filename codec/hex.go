// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// LoadHex decodes [s], with or without a 0x prefix. An [expectedSize] of -1
// accepts any length.
func LoadHex(s string, expectedSize int) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if expectedSize != -1 && len(b) != expectedSize {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSize, expectedSize, len(b))
	}
	return b, nil
}

// Bytes is account data. It is hex in JSON and in logs.
type Bytes []byte

func (b Bytes) String() string {
	return ToHex(b)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes) UnmarshalText(text []byte) error {
	decoded, err := LoadHex(string(text), -1)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
