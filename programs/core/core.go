// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package core is a minimal asset registry. It creates collections and
// single-account assets carrying an attributes plugin.
package core

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var ID = codec.MustParseAddress("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d")

const (
	MaxNameLen         = 32
	MaxURILen          = 200
	MaxAttributes      = 32
	MaxUpdateDelegates = 8
)

var _ chain.Program = (*Program)(nil)

type Program struct{}

func New() *Program {
	return &Program{}
}

func (*Program) ID() codec.Address {
	return ID
}

func (*Program) Name() string {
	return "core"
}

func (p *Program) Execute(ctx context.Context, ic *chain.InvokeContext, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstruction
	}
	switch data[0] {
	case CreateV1Tag:
		var args CreateV1Args
		if err := borsh.Deserialize(&args, data[1:]); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInstruction, err)
		}
		ic.Msg("Instruction: Create")
		return p.createV1(ctx, ic, &args)
	case CreateCollectionV1Tag:
		var args CreateCollectionV1Args
		if err := borsh.Deserialize(&args, data[1:]); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInstruction, err)
		}
		ic.Msg("Instruction: CreateCollection")
		return p.createCollectionV1(ctx, ic, &args)
	default:
		return ErrInvalidInstruction
	}
}

func checkMetadata(name, uri string) error {
	if len(name) > MaxNameLen || len(uri) > MaxURILen {
		return fmt.Errorf("%w: name or uri too long", ErrInvalidInstruction)
	}
	return nil
}

// createAccount creates [target] owned by the registry and fills it with
// [record].
func createAccount(ctx context.Context, ic *chain.InvokeContext, payer, target codec.Address, record []byte) error {
	if err := ic.Invoke(ctx, system.CreateAccount(
		payer,
		target,
		storage.MinimumBalance(len(record)),
		uint64(len(record)),
		ID,
	)); err != nil {
		return err
	}
	acct, err := ic.Account(ctx, target)
	if err != nil {
		return err
	}
	acct.Data = record
	return ic.SetAccount(ctx, target, acct)
}

func (*Program) createV1(ctx context.Context, ic *chain.InvokeContext, args *CreateV1Args) error {
	accounts := ic.Accounts()
	if len(accounts) < 5 {
		return chain.ErrNotEnoughAccountKeys
	}
	var (
		asset      = accounts[0]
		collection = accounts[1]
		authority  = accounts[2]
		payer      = accounts[3]
	)
	if accounts[4].Address != system.ID {
		return ErrInvalidSystemProgram
	}
	if authority.Address == ID {
		authority = payer
	}
	if !asset.Signer || !payer.Signer || !authority.Signer {
		return ErrMissingSigner
	}
	if err := checkMetadata(args.Name, args.URI); err != nil {
		return err
	}

	existing, err := ic.Account(ctx, asset.Address)
	if err != nil {
		return err
	}
	if existing.Lamports > 0 || len(existing.Data) > 0 {
		return ErrAssetAlreadyExists
	}

	record := &AssetV1{
		Key:                 uint8(KeyAssetV1),
		Owner:               payer.Address,
		UpdateAuthorityKind: UpdateAuthorityAddress,
		UpdateAuthority:     authority.Address,
		Name:                args.Name,
		URI:                 args.URI,
	}
	for _, plugin := range args.Plugins {
		if plugin.Type != PluginAttributes || record.Attributes != nil || len(plugin.Attributes) > MaxAttributes {
			return ErrInvalidPlugin
		}
		record.Attributes = plugin.Attributes
		record.AttributesAuthority = plugin.Authority
	}

	if collection.Address != ID {
		if err := addToCollection(ctx, ic, collection, authority.Address); err != nil {
			return err
		}
		record.UpdateAuthorityKind = UpdateAuthorityCollection
		record.UpdateAuthority = collection.Address
	}

	b, err := encodeAsset(record)
	if err != nil {
		return err
	}
	if err := createAccount(ctx, ic, payer.Address, asset.Address, b); err != nil {
		return err
	}
	ic.Log().Debug("asset created",
		zap.Stringer("asset", asset.Address),
		zap.Stringer("owner", payer.Address),
		zap.String("name", args.Name),
	)
	return nil
}

func addToCollection(ctx context.Context, ic *chain.InvokeContext, info chain.AccountInfo, authority codec.Address) error {
	acct, err := ic.Account(ctx, info.Address)
	if err != nil {
		return err
	}
	if acct.Owner != ID {
		return ErrInvalidCollection
	}
	c, err := DecodeCollection(acct.Data)
	if err != nil {
		return ErrInvalidCollection
	}
	if !c.IsAuthority(authority) {
		return ErrInvalidAuthority
	}
	if c.NumMinted, err = smath.Add(c.NumMinted, 1); err != nil {
		return ErrNumericalOverflow
	}
	if c.CurrentSize, err = smath.Add(c.CurrentSize, 1); err != nil {
		return ErrNumericalOverflow
	}
	b, err := EncodeCollection(c)
	if err != nil {
		return err
	}
	// The record layout is fixed once the collection exists.
	if len(b) != len(acct.Data) {
		return ErrInvalidCollection
	}
	acct.Data = b
	return ic.SetAccount(ctx, info.Address, acct)
}

func (*Program) createCollectionV1(ctx context.Context, ic *chain.InvokeContext, args *CreateCollectionV1Args) error {
	accounts := ic.Accounts()
	if len(accounts) < 4 {
		return chain.ErrNotEnoughAccountKeys
	}
	var (
		collection      = accounts[0]
		updateAuthority = accounts[1]
		payer           = accounts[2]
	)
	if accounts[3].Address != system.ID {
		return ErrInvalidSystemProgram
	}
	if !collection.Signer || !payer.Signer {
		return ErrMissingSigner
	}
	if err := checkMetadata(args.Name, args.URI); err != nil {
		return err
	}
	if len(args.UpdateDelegates) > MaxUpdateDelegates {
		return fmt.Errorf("%w: too many update delegates", ErrInvalidInstruction)
	}
	existing, err := ic.Account(ctx, collection.Address)
	if err != nil {
		return err
	}
	if existing.Lamports > 0 || len(existing.Data) > 0 {
		return ErrAssetAlreadyExists
	}
	b, err := EncodeCollection(&CollectionV1{
		Key:             uint8(KeyCollectionV1),
		UpdateAuthority: updateAuthority.Address,
		Name:            args.Name,
		URI:             args.URI,
		UpdateDelegates: args.UpdateDelegates,
	})
	if err != nil {
		return err
	}
	return createAccount(ctx, ic, payer.Address, collection.Address, b)
}
