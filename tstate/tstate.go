// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/bgl-labs/glyphs/keys"
)

// TState accumulates the committed changes of every view created from it
// until they are exported to the database.
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// Insert writes [value] outside of any view. It is used when seeding state
// (genesis, airdrops) and skips permission checks.
func (ts *TState) Insert(_ context.Context, key []byte, value []byte) error {
	k := string(key)
	if !keys.VerifyValue(k, value) {
		return ErrInvalidKeyValue
	}

	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[k] = maybe.Some(value)
	ts.ops++
	return nil
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed in ts.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// WriteChanges writes all changes in [TState] to [batch]. It does not call
// [database.Batch.Write].
//
// Once [WriteChanges] is called, [TState] should not be used again (as the
// bytes stored are consumed).
func (ts *TState) WriteChanges(
	ctx context.Context,
	batch database.Batch,
	t trace.Tracer, //nolint:interfacer
) error {
	_, span := t.Start(ctx, "TState.WriteChanges")
	defer span.End()

	ts.l.Lock()
	defer ts.l.Unlock()

	for key, value := range ts.changedKeys {
		if value.IsNothing() {
			if err := batch.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(key), value.Value()); err != nil {
			return err
		}
	}
	return nil
}
