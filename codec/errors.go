// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrTooLarge           = errors.New("too large")
	ErrFieldNotPopulated  = errors.New("field is not populated")
	ErrInsufficientLength = errors.New("insufficient length")
	ErrInvalidSize        = errors.New("invalid size")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidSeeds       = errors.New("invalid seeds")
)
