// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/bgl-labs/glyphs/consts"

const (
	// MaxCallDepth bounds nested cross-program invocations. The top-level
	// instruction runs at depth 1.
	MaxCallDepth = 4

	MaxInstructions           = 64
	MaxAccountsPerInstruction = 64
	MaxInstructionDataLen     = 1_232
	MaxSignatures             = 16

	MaxTxSize = consts.NetworkSizeLimit
)
