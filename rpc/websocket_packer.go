// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/consts"
)

func packResult(p *codec.Packer, r *chain.Result) {
	p.PackFixedBytes(r.TxID[:])
	p.PackUint64(r.Slot)
	p.PackBool(r.Success)
	p.PackString(r.Error)
	p.PackBool(r.Code != nil)
	if r.Code != nil {
		p.PackInt(*r.Code)
	}
	p.PackCount(len(r.Logs))
	for _, l := range r.Logs {
		p.PackString(l)
	}
}

func unpackResult(p *codec.Packer) *chain.Result {
	r := &chain.Result{}
	id := make([]byte, ids.IDLen)
	p.UnpackFixedBytes(ids.IDLen, &id)
	copy(r.TxID[:], id)
	r.Slot = p.UnpackUint64(false)
	r.Success = p.UnpackBool()
	r.Error = p.UnpackString(false)
	if p.UnpackBool() {
		code := p.UnpackInt(false)
		r.Code = &code
	}
	n := p.UnpackCount(maxResultLogs)
	r.Logs = make([]string, 0, n)
	for i := 0; i < n; i++ {
		r.Logs = append(r.Logs, p.UnpackString(false))
	}
	return r
}

func resultSize(r *chain.Result) int {
	size := ids.IDLen + consts.Uint64Len + consts.BoolLen + codec.StringLen(r.Error) +
		consts.BoolLen + consts.Uint32Len + consts.IntLen
	for _, l := range r.Logs {
		size += codec.StringLen(l)
	}
	return size
}

// PackResultMessage encodes a streamed execution result.
func PackResultMessage(r *chain.Result) ([]byte, error) {
	p := codec.NewWriter(consts.ByteLen+resultSize(r), consts.MaxInt)
	p.PackByte(ResultMode)
	packResult(p, r)
	return p.Bytes(), p.Err()
}

// PackTxMessage encodes the outcome of a submitted transaction. A nil
// [result] means the transaction was rejected with [err].
func PackTxMessage(txID ids.ID, result *chain.Result, err error) ([]byte, error) {
	size := consts.ByteLen + ids.IDLen + consts.BoolLen
	if result != nil {
		size += resultSize(result)
	} else {
		size += codec.StringLen(err.Error())
	}
	p := codec.NewWriter(size, consts.MaxInt)
	p.PackByte(TxMode)
	p.PackFixedBytes(txID[:])
	p.PackBool(result != nil)
	if result != nil {
		packResult(p, result)
	} else {
		p.PackString(err.Error())
	}
	return p.Bytes(), p.Err()
}

// UnpackResultMessage decodes a message written by [PackResultMessage].
func UnpackResultMessage(msg []byte) (*chain.Result, error) {
	p := codec.NewReader(msg, consts.MaxInt)
	if mode := p.UnpackByte(); mode != ResultMode {
		return nil, ErrUnexpectedMode
	}
	r := unpackResult(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrInvalidSize
	}
	return r, nil
}

// UnpackTxMessage decodes a message written by [PackTxMessage]. It returns
// the transaction id, its result if it executed and the rejection reason if
// it did not.
func UnpackTxMessage(msg []byte) (ids.ID, *chain.Result, string, error) {
	p := codec.NewReader(msg, consts.MaxInt)
	if mode := p.UnpackByte(); mode != TxMode {
		return ids.Empty, nil, "", ErrUnexpectedMode
	}
	var (
		b      = make([]byte, ids.IDLen)
		txID   ids.ID
		result *chain.Result
		reason string
	)
	p.UnpackFixedBytes(ids.IDLen, &b)
	copy(txID[:], b)
	if p.UnpackBool() {
		result = unpackResult(p)
	} else {
		reason = p.UnpackString(true)
	}
	if err := p.Err(); err != nil {
		return ids.Empty, nil, "", err
	}
	if !p.Empty() {
		return ids.Empty, nil, "", codec.ErrInvalidSize
	}
	return txID, result, reason, nil
}
