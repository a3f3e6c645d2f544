// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"fmt"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/system"
)

const (
	Prefix       = "GLYPH"
	GlobalSigner = "GLOBAL_SIGNER"
	SlotTracker  = "SLOT_TRACKER"

	GlobalSignerBump uint8 = 252
	SlotTrackerBump  uint8 = 255

	// MintFee is paid by every excavation to the global signer.
	MintFee uint64 = 1_000_000
)

var (
	ID = codec.MustParseAddress("GLYPHQ8TkcUZYrdbMLkfWUzfdKPyCc9JLf987iNY5MAs")

	GlobalSignerAddress = codec.MustParseAddress("3skJESN1mj5EMdYMA52ug8TUnsGFxF646F9nXow3CUru")
	SlotTrackerAddress  = codec.MustParseAddress("4F1xoqW362RXP4YxjoTsMguWQWJYsCDwqG2VJxTgZLUe")
	CollectionAddress   = codec.MustParseAddress("G1yphsa2NejzXMsUn2yDpNrT92DXpjucG47kxLvgVKft")

	SystemProgramID = system.ID
	CoreProgramID   = core.ID
)

func GlobalSignerSeeds() [][]byte {
	return [][]byte{[]byte(Prefix), []byte(GlobalSigner), {GlobalSignerBump}}
}

func SlotTrackerSeeds() [][]byte {
	return [][]byte{[]byte(Prefix), []byte(SlotTracker), {SlotTrackerBump}}
}

// Verify re-derives the compiled program addresses and bumps.
func Verify() error {
	for _, pda := range []struct {
		seed    string
		address codec.Address
		bump    uint8
	}{
		{GlobalSigner, GlobalSignerAddress, GlobalSignerBump},
		{SlotTracker, SlotTrackerAddress, SlotTrackerBump},
	} {
		addr, bump, err := codec.FindProgramAddress([][]byte{[]byte(Prefix), []byte(pda.seed)}, ID)
		if err != nil {
			return err
		}
		if addr != pda.address || bump != pda.bump {
			return fmt.Errorf("%w: %s derives to %s with bump %d, compiled %s with bump %d",
				codec.ErrInvalidSeeds, pda.seed, addr, bump, pda.address, pda.bump)
		}
	}
	return nil
}
