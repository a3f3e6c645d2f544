// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/bgl-labs/glyphs/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. A bool [required] parameter is
// added to many unpacking methods, which signals the packer to add an error
// if the expected method does not unpack properly.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance with the current byte array set to
// [src] and a maximum size of [limit].
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// maximum size of [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{MaxSize: limit, Bytes: make([]byte, 0, initial)},
	}
}

// Bytes returns the byte slice of the packer.
func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

// Offset returns the number of bytes packed or unpacked so far.
func (p *Packer) Offset() int {
	return p.p.Offset
}

// Err returns any error associated with the packer.
func (p *Packer) Err() error {
	return p.p.Err
}

// Empty returns true if the reader has consumed every byte.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

func (p *Packer) addErr(err error) {
	p.p.Add(err)
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	copy((*dest), p.p.UnpackFixedBytes(size))
}

// PackBytes packs a length-prefixed byte slice.
func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes unpacks a length-prefixed byte slice into [dest]. A negative
// [limit] disables the size check.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	b := p.p.UnpackBytes()
	if limit >= 0 && len(b) > limit {
		p.addErr(ErrTooLarge)
		return
	}
	if required && len(b) == 0 {
		p.addErr(ErrFieldNotPopulated)
		return
	}
	*dest = b
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackInt(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackInt(required bool) uint32 {
	v := p.p.UnpackInt()
	if required && v == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return v
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

func (p *Packer) UnpackUint64(required bool) uint64 {
	v := p.p.UnpackLong()
	if required && v == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return v
}

func (p *Packer) PackString(s string) {
	p.p.PackStr(s)
}

func (p *Packer) UnpackString(required bool) string {
	str := p.p.UnpackStr()
	if required && len(str) == 0 {
		p.addErr(ErrFieldNotPopulated)
	}
	return str
}

// PackCount packs the length of a list that follows.
func (p *Packer) PackCount(n int) {
	if n > int(consts.MaxUint32) {
		p.addErr(ErrTooLarge)
		return
	}
	p.p.PackInt(uint32(n))
}

// UnpackCount unpacks a list length and rejects anything larger than [limit].
func (p *Packer) UnpackCount(limit int) int {
	n := int(p.p.UnpackInt())
	if n > limit {
		p.addErr(ErrTooLarge)
		return 0
	}
	return n
}
