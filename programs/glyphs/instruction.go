// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"fmt"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
)

const ExcavateTag byte = 0

// Instruction is one of the instructions the program accepts. [Excavate] is
// the only one.
type Instruction interface {
	Tag() byte
}

// Excavate mints the glyph of the current slot. It takes no arguments.
type Excavate struct{}

func (Excavate) Tag() byte {
	return ExcavateTag
}

// ParseInstruction decodes instruction data. Trailing bytes are rejected.
func ParseInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", chain.ErrInvalidInstructionData)
	}
	switch data[0] {
	case ExcavateTag:
		if len(data) != 1 {
			return nil, fmt.Errorf("%w: %d trailing bytes", chain.ErrInvalidInstructionData, len(data)-1)
		}
		return Excavate{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", chain.ErrInvalidInstructionData, data[0])
	}
}

// Account positions of [Excavate].
const (
	AssetIndex = iota
	CollectionIndex
	PayerIndex
	SlotTrackerIndex
	GlyphSignerIndex
	SystemProgramIndex
	CoreProgramIndex

	excavateAccounts
)

// NewExcavateInstruction builds an [Excavate] for a fresh [asset] keypair
// paid for by [payer]. Both must sign the transaction.
func NewExcavateInstruction(asset, payer codec.Address) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts: []chain.AccountMeta{
			AssetIndex:         chain.Writable(asset, true),
			CollectionIndex:    chain.Writable(CollectionAddress, false),
			PayerIndex:         chain.Writable(payer, true),
			SlotTrackerIndex:   chain.Writable(SlotTrackerAddress, false),
			GlyphSignerIndex:   chain.Writable(GlobalSignerAddress, false),
			SystemProgramIndex: chain.Readonly(SystemProgramID, false),
			CoreProgramIndex:   chain.Readonly(CoreProgramID, false),
		},
		Data: []byte{ExcavateTag},
	}
}
