// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes the maximum size of a stored value into the suffix of
// its state key so that storage can be bounded before a value is read.
package keys

import (
	"encoding/binary"

	"github.com/bgl-labs/glyphs/consts"
)

const chunkSize = 64 // bytes

func Valid(key string) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the chunk limit encoded in the suffix of [key].
func MaxChunks(key string) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16([]byte(key[l-consts.Uint16Len:])), true
}

// NumChunks returns the number of chunks [value] occupies.
func NumChunks(value []byte) (uint16, bool) {
	return numChunks(len(value))
}

func numChunks(valueLen int) (uint16, bool) {
	if valueLen == 0 {
		return 0, true
	}
	raw := (valueLen + chunkSize - 1) / chunkSize
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue returns true if [value] fits within the chunk limit of [key].
func VerifyValue(key string, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// Encode appends the chunk count needed to hold [maxSize] bytes to [key].
func Encode(key []byte, maxSize int) (string, bool) {
	n, ok := numChunks(maxSize)
	if !ok {
		return "", false
	}
	return EncodeChunks(key, n), true
}

func EncodeChunks(key []byte, maxChunks uint16) string {
	k := make([]byte, 0, len(key)+consts.Uint16Len)
	k = append(k, key...)
	k = binary.BigEndian.AppendUint16(k, maxChunks)
	return string(k)
}

// Trim returns [key] without its chunk suffix.
func Trim(key string) []byte {
	if !Valid(key) {
		return nil
	}
	return []byte(key[:len(key)-consts.Uint16Len])
}
