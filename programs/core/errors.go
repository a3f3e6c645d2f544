// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

// Error is an asset registry failure with a stable numeric code.
type Error uint32

const (
	ErrInvalidSystemProgram Error = iota
	ErrInvalidInstruction
	ErrNotInitialized
	ErrAssetAlreadyExists
	ErrInvalidCollection
	ErrInvalidAuthority
	ErrMissingSigner
	ErrInvalidPlugin
	ErrNumericalOverflow
)

var _ error = Error(0)

func (e Error) Code() uint32 {
	return uint32(e)
}

func (e Error) Error() string {
	switch e {
	case ErrInvalidSystemProgram:
		return "invalid system program"
	case ErrInvalidInstruction:
		return "invalid instruction"
	case ErrNotInitialized:
		return "account not initialized"
	case ErrAssetAlreadyExists:
		return "asset account already exists"
	case ErrInvalidCollection:
		return "invalid collection"
	case ErrInvalidAuthority:
		return "invalid authority"
	case ErrMissingSigner:
		return "missing required signer"
	case ErrInvalidPlugin:
		return "invalid plugin"
	case ErrNumericalOverflow:
		return "numerical overflow"
	default:
		return "unknown core error"
	}
}
