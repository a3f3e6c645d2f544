// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"context"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/system"
)

const (
	opWrite byte = iota
	opRecurse
	opEscalate
	opPDATransfer
	opFail
)

var (
	probeID    = codec.Address{0xfe, 0x01}
	vaultSeeds = [][]byte{[]byte("vault")}

	errProbe = probeError(7)
)

type probeError uint32

func (e probeError) Code() uint32 { return uint32(e) }
func (probeError) Error() string  { return "probe failure" }

// probe exercises the invoke context from inside a program.
type probe struct{}

func (probe) ID() codec.Address { return probeID }

func (probe) Name() string { return "probe" }

func (probe) Execute(ctx context.Context, ic *chain.InvokeContext, data []byte) error {
	if len(data) == 0 {
		return chain.ErrInvalidInstructionData
	}
	accounts := ic.Accounts()
	switch data[0] {
	case opWrite:
		// data[1:] replaces the data of accounts[0]
		acct, err := ic.Account(ctx, accounts[0].Address)
		if err != nil {
			return err
		}
		acct.Data = data[1:]
		return ic.SetAccount(ctx, accounts[0].Address, acct)
	case opRecurse:
		ic.Msg("depth %d", ic.Depth())
		return ic.Invoke(ctx, &chain.Instruction{
			ProgramID: probeID,
			Accounts:  []chain.AccountMeta{chain.Readonly(probeID, false)},
			Data:      []byte{opRecurse},
		})
	case opEscalate:
		// accounts[0] never signed
		return ic.Invoke(ctx, system.Transfer(accounts[0].Address, accounts[1].Address, 1))
	case opPDATransfer:
		// accounts: vault, destination, system program
		vault, bump, err := codec.FindProgramAddress(vaultSeeds, probeID)
		if err != nil {
			return err
		}
		seeds := append(append([][]byte{}, vaultSeeds...), []byte{bump})
		return ic.Invoke(ctx, system.Transfer(vault, accounts[1].Address, 1_000), seeds)
	case opFail:
		return errProbe
	default:
		return chain.ErrInvalidInstructionData
	}
}
