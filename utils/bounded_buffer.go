// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/utils/buffer"
)

var errInvalidMaxSize = errors.New("maxSize must be greater than 0")

// BoundedBuffer keeps the [maxSize] most recent entries of type [T] and
// calls [onEvict] on any item that falls out. It is safe for concurrent use.
type BoundedBuffer[T any] struct {
	l           sync.RWMutex
	innerBuffer buffer.Deque[T]
	maxSize     int
	onEvict     func(T)
}

func NewBoundedBuffer[T any](maxSize int, onEvict func(T)) (*BoundedBuffer[T], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	if onEvict == nil {
		onEvict = func(T) {}
	}
	return &BoundedBuffer[T]{
		innerBuffer: buffer.NewUnboundedDeque[T](maxSize + 1), // +1 so we never resize
		maxSize:     maxSize,
		onEvict:     onEvict,
	}, nil
}

// Insert adds [elt], evicting the oldest entry if the buffer is full.
func (b *BoundedBuffer[T]) Insert(elt T) {
	b.l.Lock()
	defer b.l.Unlock()

	if b.innerBuffer.Len() == b.maxSize {
		evicted, _ := b.innerBuffer.PopLeft()
		b.onEvict(evicted)
	}
	b.innerBuffer.PushRight(elt)
}

// Last retrieves the last item added to the buffer.
func (b *BoundedBuffer[T]) Last() (T, bool) {
	b.l.RLock()
	defer b.l.RUnlock()

	return b.innerBuffer.PeekRight()
}

// Items returns all the items in the buffer from oldest to newest.
func (b *BoundedBuffer[T]) Items() []T {
	b.l.RLock()
	defer b.l.RUnlock()

	return b.innerBuffer.List()
}

func (b *BoundedBuffer[T]) Len() int {
	b.l.RLock()
	defer b.l.RUnlock()

	return b.innerBuffer.Len()
}
