// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/storage"
)

// CreateOrAllocate turns [target], a program address of the calling program
// derived from [seeds], into a rent exempt account of [space] bytes owned by
// [owner]. [payer] funds the rent.
//
// If [target] holds no lamports it is created in one step. Otherwise it is
// topped up to rent exemption and then allocated and assigned, which also
// works when someone has already sent lamports to the address.
func CreateOrAllocate(
	ctx context.Context,
	ic *chain.InvokeContext,
	owner codec.Address,
	target codec.Address,
	payer codec.Address,
	space uint64,
	seeds [][]byte,
) error {
	acct, err := ic.Account(ctx, target)
	if err != nil {
		return err
	}
	required := storage.MinimumBalance(int(space))
	if acct.Lamports == 0 {
		return ic.Invoke(ctx, CreateAccount(payer, target, required, space, owner), seeds)
	}
	if acct.Lamports < required {
		if err := ic.Invoke(ctx, Transfer(payer, target, required-acct.Lamports)); err != nil {
			return err
		}
	}
	if err := ic.Invoke(ctx, Allocate(target, space), seeds); err != nil {
		return err
	}
	return ic.Invoke(ctx, Assign(target, owner), seeds)
}
