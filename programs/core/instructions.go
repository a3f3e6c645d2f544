// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"github.com/near/borsh-go"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/system"
)

const (
	CreateV1Tag           byte = 0
	CreateCollectionV1Tag byte = 1
)

type CreateV1Args struct {
	Name    string
	URI     string
	Plugins []PluginAuthorityPair
}

type CreateCollectionV1Args struct {
	Name            string
	URI             string
	UpdateDelegates [][32]byte
}

func encode(tag byte, args any) []byte {
	body, err := borsh.Serialize(args)
	if err != nil {
		panic(err)
	}
	return append([]byte{tag}, body...)
}

// CreateV1 mints [asset] owned by [payer]. Pass [ID] for [collection] to
// mint outside of a collection and for [authority] to use [payer].
func CreateV1(asset, collection, authority, payer codec.Address, args CreateV1Args) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts: []chain.AccountMeta{
			chain.Writable(asset, true),
			{Address: collection, Writable: collection != ID},
			{Address: authority, Signer: authority != ID},
			chain.Writable(payer, true),
			chain.Readonly(system.ID, false),
		},
		Data: encode(CreateV1Tag, args),
	}
}

func CreateCollectionV1(collection, updateAuthority, payer codec.Address, args CreateCollectionV1Args) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts: []chain.AccountMeta{
			chain.Writable(collection, true),
			chain.Readonly(updateAuthority, false),
			chain.Writable(payer, true),
			chain.Readonly(system.ID, false),
		},
		Data: encode(CreateCollectionV1Tag, args),
	}
}
