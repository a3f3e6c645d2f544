// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/consts"
)

const (
	signerFlag   byte = 1 << 0
	writableFlag byte = 1 << 1
)

// AccountMeta names an account an instruction touches and the privileges it
// needs on it.
type AccountMeta struct {
	Address  codec.Address `json:"address"`
	Signer   bool          `json:"signer"`
	Writable bool          `json:"writable"`
}

func Writable(addr codec.Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, Signer: signer, Writable: true}
}

func Readonly(addr codec.Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, Signer: signer}
}

type Instruction struct {
	ProgramID codec.Address `json:"programID"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

func (i *Instruction) Size() int {
	return codec.AddressLen + consts.Uint32Len + len(i.Accounts)*(codec.AddressLen+consts.ByteLen) + codec.BytesLen(i.Data)
}

func (i *Instruction) Marshal(p *codec.Packer) {
	p.PackAddress(i.ProgramID)
	p.PackCount(len(i.Accounts))
	for _, meta := range i.Accounts {
		p.PackAddress(meta.Address)
		var flags byte
		if meta.Signer {
			flags |= signerFlag
		}
		if meta.Writable {
			flags |= writableFlag
		}
		p.PackByte(flags)
	}
	p.PackBytes(i.Data)
}

func UnmarshalInstruction(p *codec.Packer) (*Instruction, error) {
	var ins Instruction
	p.UnpackAddress(&ins.ProgramID)
	n := p.UnpackCount(MaxAccountsPerInstruction)
	if n > 0 {
		ins.Accounts = make([]AccountMeta, n)
	}
	for j := 0; j < n; j++ {
		p.UnpackAddress(&ins.Accounts[j].Address)
		flags := p.UnpackByte()
		if flags&^(signerFlag|writableFlag) != 0 {
			return nil, ErrInvalidInstructionData
		}
		ins.Accounts[j].Signer = flags&signerFlag != 0
		ins.Accounts[j].Writable = flags&writableFlag != 0
	}
	p.UnpackBytes(MaxInstructionDataLen, false, &ins.Data)
	return &ins, p.Err()
}

// AccountInfo is an account as seen by an executing program: its address
// and the privileges the caller granted.
type AccountInfo struct {
	Address  codec.Address
	Signer   bool
	Writable bool
}
