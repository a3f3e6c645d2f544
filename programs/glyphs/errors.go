// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

// Error codes are part of the program interface. Never reorder them.
type Error uint32

const (
	ErrInvalidSystemProgram Error = iota
	ErrDeserialization
	ErrSerialization
	ErrInvalidMplCoreProgram
	ErrInvalidSlotTracker
	ErrInvalidGlyphSigner
	ErrNumericalOverflow
	ErrAlreadyExcavated
	ErrInvalidCollection
	ErrInvalidAsset
	ErrMissingSignature
	ErrInvalidSlotTrackerKey
)

var _ error = Error(0)

func (e Error) Code() uint32 {
	return uint32(e)
}

func (e Error) Error() string {
	switch e {
	case ErrInvalidSystemProgram:
		return "Invalid System Program"
	case ErrDeserialization:
		return "Error deserializing account"
	case ErrSerialization:
		return "Error serializing account"
	case ErrInvalidMplCoreProgram:
		return "Invalid MPL Core Program"
	case ErrInvalidSlotTracker:
		return "Invalid Slot Tracker"
	case ErrInvalidGlyphSigner:
		return "Invalid Glyph Signer"
	case ErrNumericalOverflow:
		return "Numerical Overflow"
	case ErrAlreadyExcavated:
		return "Already Excavated"
	case ErrInvalidCollection:
		return "Invalid Collection"
	case ErrInvalidAsset:
		return "Invalid Asset"
	case ErrMissingSignature:
		return "Missing Required Signature"
	case ErrInvalidSlotTrackerKey:
		return "Invalid Slot Tracker Key"
	default:
		return "Unknown Glyphs Error"
	}
}
