// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"context"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
)

const (
	CollectionName = "Glyphs"
	CollectionURI  = "https://www.glyphs.quest/collection.json"
)

// GenesisKeys are the keys [SeedCollection] writes.
func GenesisKeys() state.Keys {
	return state.Keys{string(storage.AccountKey(CollectionAddress)): state.All}
}

// SeedCollection writes the glyphs collection at [CollectionAddress]. The
// global signer is its only update delegate, so only excavations can add
// to it.
func SeedCollection(ctx context.Context, mu state.Mutable, updateAuthority codec.Address) error {
	data, err := core.EncodeCollection(&core.CollectionV1{
		Key:             uint8(core.KeyCollectionV1),
		UpdateAuthority: updateAuthority,
		Name:            CollectionName,
		URI:             CollectionURI,
		UpdateDelegates: [][32]byte{GlobalSignerAddress},
	})
	if err != nil {
		return err
	}
	return storage.SetAccount(ctx, mu, CollectionAddress, &storage.Account{
		Owner:    core.ID,
		Lamports: storage.MinimumBalance(len(data)),
		Data:     data,
	})
}
