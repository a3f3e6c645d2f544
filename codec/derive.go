// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

// CreateProgramAddress derives the program address for [seeds] under
// [programID]. The last seed is usually the bump. Seeds that hash onto the
// ed25519 curve are rejected since a private key could exist for them.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if err := verifySeeds(seeds); err != nil {
		return EmptyAddress, err
	}
	pk, err := solana.CreateProgramAddress(seeds, solana.PublicKey(programID))
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidSeeds, err)
	}
	return Address(pk), nil
}

// FindProgramAddress searches bumps from 255 downwards and returns the first
// program address that is off the curve together with its bump. [seeds] must
// not include a bump.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return EmptyAddress, 0, ErrInvalidSeeds
	}
	if err := verifySeeds(seeds); err != nil {
		return EmptyAddress, 0, err
	}
	pk, bump, err := solana.FindProgramAddress(seeds, solana.PublicKey(programID))
	if err != nil {
		return EmptyAddress, 0, fmt.Errorf("%w: %w", ErrInvalidSeeds, err)
	}
	return Address(pk), bump, nil
}

func verifySeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d seeds", ErrInvalidSeeds, len(seeds))
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return fmt.Errorf("%w: seed of %d bytes", ErrInvalidSeeds, len(seed))
		}
	}
	return nil
}
