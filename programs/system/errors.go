// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import "errors"

// Error is a system program failure with a stable numeric code.
type Error uint32

const (
	ErrAccountAlreadyInUse Error = iota
	ErrResultWithNegativeLamports
	ErrInvalidProgramID
	ErrInvalidAccountDataLength
)

var _ error = Error(0)

func (e Error) Code() uint32 {
	return uint32(e)
}

func (e Error) Error() string {
	switch e {
	case ErrAccountAlreadyInUse:
		return "an account with the same address already exists"
	case ErrResultWithNegativeLamports:
		return "account does not have enough SOL to perform the operation"
	case ErrInvalidProgramID:
		return "cannot assign account to this program id"
	case ErrInvalidAccountDataLength:
		return "cannot allocate account data of this length"
	default:
		return "unknown system error"
	}
}

var (
	ErrFromMustNotCarryData     = errors.New("from account must not carry data")
	ErrInsufficientFundsForRent = errors.New("insufficient funds for rent")
	ErrUnknownInstruction       = errors.New("unknown system instruction")
)
