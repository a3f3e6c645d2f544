// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/keys"
	"github.com/bgl-labs/glyphs/pebble"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/utils"
)

type ReadState func(context.Context, [][]byte) ([][]byte, []error)

// New opens a pebble database in [chainDataDir]/[namespace] and registers its
// metrics with [gatherer].
func New(cfg pebble.Config, chainDataDir string, namespace string, gatherer metrics.MultiGatherer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(chainDataDir, namespace)
	if err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(namespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// [accountPrefix] + [address] + [chunks]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen)
	k = append(k, accountPrefix)
	k = append(k, addr[:]...)
	ek, _ := keys.Encode(k, maxAccountLen)
	return []byte(ek)
}

// GetAccount returns the account stored at [addr]. Addresses that were never
// written hold an empty system-owned account.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (*Account, error) {
	return innerGetAccount(im.GetValue(ctx, AccountKey(addr)))
}

// Used to serve RPC queries
func GetAccountFromState(
	ctx context.Context,
	f ReadState,
	addr codec.Address,
) (*Account, error) {
	values, errs := f(ctx, [][]byte{AccountKey(addr)})
	return innerGetAccount(values[0], errs[0])
}

func innerGetAccount(v []byte, err error) (*Account, error) {
	if errors.Is(err, database.ErrNotFound) {
		return &Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeAccount(v)
}

// SetAccount writes [a] to [addr]. Writing an empty account deletes the
// record instead.
func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	a *Account,
) error {
	k := AccountKey(addr)
	if a.Empty() {
		return mu.Remove(ctx, k)
	}
	b, err := EncodeAccount(a)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, k, b)
}

// AddLamports credits [amount] to [addr] and returns the new balance.
func AddLamports(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	amount uint64,
) (uint64, error) {
	a, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	if err := a.AddLamports(amount); err != nil {
		return 0, err
	}
	return a.Lamports, SetAccount(ctx, mu, addr, a)
}

// [txPrefix] + [txID] + [chunks]
func TxKey(id ids.ID) []byte {
	k := make([]byte, 0, consts.ByteLen+ids.IDLen+consts.Uint16Len)
	k = append(k, txPrefix)
	k = append(k, id[:]...)
	return []byte(keys.EncodeChunks(k, TxChunks))
}

// StoreTransaction records that [id] was processed in [slot].
func StoreTransaction(
	ctx context.Context,
	mu state.Mutable,
	id ids.ID,
	slot uint64,
) error {
	return mu.Insert(ctx, TxKey(id), binary.BigEndian.AppendUint64(nil, slot))
}

// GetTransaction returns the slot [id] was processed in, if any.
func GetTransaction(
	ctx context.Context,
	im state.Immutable,
	id ids.ID,
) (bool, uint64, error) {
	v, err := im.GetValue(ctx, TxKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	slot, err := database.ParseUInt64(v)
	if err != nil {
		return false, 0, err
	}
	return true, slot, nil
}

// Used to serve RPC queries
func GetTransactionFromState(
	ctx context.Context,
	f ReadState,
	id ids.ID,
) (bool, uint64, error) {
	values, errs := f(ctx, [][]byte{TxKey(id)})
	if errors.Is(errs[0], database.ErrNotFound) {
		return false, 0, nil
	}
	if errs[0] != nil {
		return false, 0, errs[0]
	}
	slot, err := database.ParseUInt64(values[0])
	if err != nil {
		return false, 0, err
	}
	return true, slot, nil
}
