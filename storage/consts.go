// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "github.com/bgl-labs/glyphs/consts"

// State
// 0x0/ (accounts)
//   -> [address] => owner|lamports|executable|data
// 0x1/ (processed transactions)
//   -> [txID] => slot

const (
	accountPrefix byte = 0x0
	txPrefix      byte = 0x1
)

const (
	// MaxAccountDataSize bounds the data held by a single account.
	MaxAccountDataSize = 10 * consts.KiB

	accountHeaderLen = consts.IDLen + consts.Uint64Len + consts.BoolLen + consts.Uint32Len
	maxAccountLen    = accountHeaderLen + MaxAccountDataSize

	TxChunks uint16 = 1
)

// Rent parameters. An account is rent exempt once it holds
// (AccountStorageOverhead + len(data)) * LamportsPerByteYear * ExemptionThreshold
// lamports.
const (
	AccountStorageOverhead = 128
	LamportsPerByteYear    = 3_480
	ExemptionThreshold     = 2
)

const LamportsPerSOL = 1_000_000_000
