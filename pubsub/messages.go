// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/consts"
)

// CreateBatchMessage packs [msgs] into one websocket frame.
func CreateBatchMessage(maxSize int, msgs [][]byte) ([]byte, error) {
	size := consts.IntLen
	for _, msg := range msgs {
		size += codec.BytesLen(msg)
	}
	p := codec.NewWriter(size, maxSize)
	p.PackCount(len(msgs))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

// ParseBatchMessage unpacks a frame written by [CreateBatchMessage].
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	p := codec.NewReader(msg, maxSize)
	n := p.UnpackCount(maxMessageBatchSize)
	msgs := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		var m []byte
		p.UnpackBytes(maxSize, true, &m)
		msgs = append(msgs, m)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrInvalidSize
	}
	return msgs, nil
}
