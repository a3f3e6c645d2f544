// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"encoding/binary"

	"github.com/near/borsh-go"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
)

// Instruction tags are little endian u32 values.
const (
	CreateAccountTag uint32 = 0
	AssignTag        uint32 = 1
	TransferTag      uint32 = 2
	AllocateTag      uint32 = 8

	tagLen = 4
)

type createAccountArgs struct {
	Lamports uint64
	Space    uint64
	Owner    [32]byte
}

type assignArgs struct {
	Owner [32]byte
}

type transferArgs struct {
	Lamports uint64
}

type allocateArgs struct {
	Space uint64
}

const (
	createAccountArgsLen = 8 + 8 + 32
	assignArgsLen        = 32
	transferArgsLen      = 8
	allocateArgsLen      = 8
)

func encode(tag uint32, args any) []byte {
	body, err := borsh.Serialize(args)
	if err != nil {
		// Fixed size args always serialize.
		panic(err)
	}
	data := binary.LittleEndian.AppendUint32(make([]byte, 0, tagLen+len(body)), tag)
	return append(data, body...)
}

// CreateAccount funds [to] from [from], allocates [space] bytes and assigns
// it to [owner]. Both accounts must sign.
func CreateAccount(from, to codec.Address, lamports, space uint64, owner codec.Address) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts: []chain.AccountMeta{
			chain.Writable(from, true),
			chain.Writable(to, true),
		},
		Data: encode(CreateAccountTag, createAccountArgs{
			Lamports: lamports,
			Space:    space,
			Owner:    owner,
		}),
	}
}

func Assign(account, owner codec.Address) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts:  []chain.AccountMeta{chain.Writable(account, true)},
		Data:      encode(AssignTag, assignArgs{Owner: owner}),
	}
}

func Transfer(from, to codec.Address, lamports uint64) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts: []chain.AccountMeta{
			chain.Writable(from, true),
			chain.Writable(to, false),
		},
		Data: encode(TransferTag, transferArgs{Lamports: lamports}),
	}
}

func Allocate(account codec.Address, space uint64) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: ID,
		Accounts:  []chain.AccountMeta{chain.Writable(account, true)},
		Data:      encode(AllocateTag, allocateArgs{Space: space}),
	}
}

func decode(body []byte, size int, args any) error {
	if len(body) != size {
		return chain.ErrInvalidInstructionData
	}
	if err := borsh.Deserialize(args, body); err != nil {
		return chain.ErrInvalidInstructionData
	}
	return nil
}
