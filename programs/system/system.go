// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system implements the native program that owns every fresh
// account: it moves lamports, allocates account data and hands accounts over
// to other programs.
package system

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/storage"
)

// ID is the all-zero address, "11111111111111111111111111111111" in base58.
var ID = codec.EmptyAddress

var _ chain.Program = (*Program)(nil)

type Program struct{}

func New() *Program {
	return &Program{}
}

func (*Program) ID() codec.Address {
	return ID
}

func (*Program) Name() string {
	return "system"
}

func (p *Program) Execute(ctx context.Context, ic *chain.InvokeContext, data []byte) error {
	if len(data) < tagLen {
		return chain.ErrInvalidInstructionData
	}
	tag, body := binary.LittleEndian.Uint32(data), data[tagLen:]
	accounts := ic.Accounts()
	switch tag {
	case CreateAccountTag:
		var args createAccountArgs
		if err := decode(body, createAccountArgsLen, &args); err != nil {
			return err
		}
		if len(accounts) < 2 {
			return chain.ErrNotEnoughAccountKeys
		}
		return p.createAccount(ctx, ic, accounts[0], accounts[1], args.Lamports, args.Space, args.Owner)
	case AssignTag:
		var args assignArgs
		if err := decode(body, assignArgsLen, &args); err != nil {
			return err
		}
		if len(accounts) < 1 {
			return chain.ErrNotEnoughAccountKeys
		}
		return p.assign(ctx, ic, accounts[0], args.Owner)
	case TransferTag:
		var args transferArgs
		if err := decode(body, transferArgsLen, &args); err != nil {
			return err
		}
		if len(accounts) < 2 {
			return chain.ErrNotEnoughAccountKeys
		}
		return p.transfer(ctx, ic, accounts[0], accounts[1], args.Lamports)
	case AllocateTag:
		var args allocateArgs
		if err := decode(body, allocateArgsLen, &args); err != nil {
			return err
		}
		if len(accounts) < 1 {
			return chain.ErrNotEnoughAccountKeys
		}
		return p.allocate(ctx, ic, accounts[0], args.Space)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownInstruction, tag)
	}
}

func requireSigner(info chain.AccountInfo) error {
	if !info.Signer {
		return fmt.Errorf("%w: %s", chain.ErrMissingSignature, info.Address)
	}
	return nil
}

func (*Program) transfer(ctx context.Context, ic *chain.InvokeContext, from, to chain.AccountInfo, lamports uint64) error {
	if err := requireSigner(from); err != nil {
		return err
	}
	src, err := ic.Account(ctx, from.Address)
	if err != nil {
		return err
	}
	if len(src.Data) > 0 {
		return ErrFromMustNotCarryData
	}
	if src.Lamports < lamports {
		ic.Msg("Transfer: insufficient lamports %d, need %d", src.Lamports, lamports)
		return ErrResultWithNegativeLamports
	}
	if from.Address == to.Address || lamports == 0 {
		return nil
	}
	if err := src.SubLamports(lamports); err != nil {
		return err
	}
	if err := ic.SetAccount(ctx, from.Address, src); err != nil {
		return err
	}
	dst, err := ic.Account(ctx, to.Address)
	if err != nil {
		return err
	}
	if err := dst.AddLamports(lamports); err != nil {
		return err
	}
	ic.Log().Debug("transfer",
		zap.Stringer("from", from.Address),
		zap.Stringer("to", to.Address),
		zap.Uint64("lamports", lamports),
	)
	return ic.SetAccount(ctx, to.Address, dst)
}

func (*Program) allocateAndAssign(
	ctx context.Context,
	ic *chain.InvokeContext,
	info chain.AccountInfo,
	acct *storage.Account,
	space uint64,
	owner codec.Address,
) error {
	if len(acct.Data) > 0 || acct.Owner != ID {
		ic.Msg("Allocate: account %s already in use", info.Address)
		return ErrAccountAlreadyInUse
	}
	if space > storage.MaxAccountDataSize {
		return ErrInvalidAccountDataLength
	}
	if acct.Lamports < storage.MinimumBalance(int(space)) {
		return fmt.Errorf("%w: %s holds %d, needs %d",
			ErrInsufficientFundsForRent, info.Address, acct.Lamports, storage.MinimumBalance(int(space)))
	}
	acct.Data = make([]byte, space)
	acct.Owner = owner
	return ic.SetAccount(ctx, info.Address, acct)
}

func (p *Program) createAccount(
	ctx context.Context,
	ic *chain.InvokeContext,
	from chain.AccountInfo,
	to chain.AccountInfo,
	lamports uint64,
	space uint64,
	owner codec.Address,
) error {
	if err := requireSigner(to); err != nil {
		return err
	}
	dst, err := ic.Account(ctx, to.Address)
	if err != nil {
		return err
	}
	if dst.Lamports > 0 {
		ic.Msg("Create Account: account %s already in use", to.Address)
		return ErrAccountAlreadyInUse
	}
	if err := p.transfer(ctx, ic, from, to, lamports); err != nil {
		return err
	}
	dst, err = ic.Account(ctx, to.Address)
	if err != nil {
		return err
	}
	return p.allocateAndAssign(ctx, ic, to, dst, space, owner)
}

func (*Program) assign(ctx context.Context, ic *chain.InvokeContext, info chain.AccountInfo, owner codec.Address) error {
	acct, err := ic.Account(ctx, info.Address)
	if err != nil {
		return err
	}
	if acct.Owner == owner {
		return nil
	}
	if err := requireSigner(info); err != nil {
		return err
	}
	if acct.Owner != ID {
		return ErrInvalidProgramID
	}
	acct.Owner = owner
	return ic.SetAccount(ctx, info.Address, acct)
}

func (p *Program) allocate(ctx context.Context, ic *chain.InvokeContext, info chain.AccountInfo, space uint64) error {
	if err := requireSigner(info); err != nil {
		return err
	}
	acct, err := ic.Account(ctx, info.Address)
	if err != nil {
		return err
	}
	return p.allocateAndAssign(ctx, ic, info, acct, space, acct.Owner)
}
