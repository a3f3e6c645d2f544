// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lockmap provides per-key reader/writer locks that are allocated on
// first use and released once no holder remains.
package lockmap

import (
	"sync"

	"github.com/bgl-labs/glyphs/state"
)

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.lock(key, true)
}

func (l *Lockmap) Unlock(key string) {
	l.unlock(key, true)
}

func (l *Lockmap) RLock(key string) {
	l.lock(key, false)
}

func (l *Lockmap) RUnlock(key string) {
	l.unlock(key, false)
}

func (l *Lockmap) lock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	if write {
		hl.mu.Lock()
	} else {
		hl.mu.RLock()
	}
}

func (l *Lockmap) unlock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		l.l.Unlock()
		panic("lockmap: unlock of unlocked key")
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	l.l.Unlock()

	if write {
		hl.mu.Unlock()
	} else {
		hl.mu.RUnlock()
	}
}

// Acquire locks every key in [ks] in sorted order, taking a write lock for
// keys that may be modified and a read lock otherwise. The returned function
// releases them.
func (l *Lockmap) Acquire(ks state.Keys) func() {
	sorted := ks.Sorted()
	for _, k := range sorted {
		if ks[k].Has(state.Write) || ks[k].Has(state.Allocate) {
			l.Lock(k)
		} else {
			l.RLock(k)
		}
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			k := sorted[i]
			if ks[k].Has(state.Write) || ks[k].Has(state.Allocate) {
				l.Unlock(k)
			} else {
				l.RUnlock(k)
			}
		}
	}
}

// Locks returns the number of keys currently held.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
