// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInsufficientLamports = errors.New("insufficient lamports")
	ErrLamportsOverflow     = errors.New("lamports overflow")
	ErrAccountDataTooLarge  = errors.New("account data too large")
	ErrInvalidAccount       = errors.New("invalid account encoding")
)
