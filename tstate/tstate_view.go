// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/bgl-labs/glyphs/keys"
	"github.com/bgl-labs/glyphs/state"
)

const defaultOps = 4

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView is a scoped, journaled window onto [TState]. Changes become
// visible to other views only after [Commit].
type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on [TState]. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	scope        state.Keys
	scopeStorage map[string][]byte

	canAllocate bool
}

// NewView returns a view that may only touch the keys in [scope], with the
// permissions given there. [storage] holds the values of [scope] as they
// were read from the database.
func (ts *TState) NewView(scope state.Keys, storage map[string][]byte) *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),

		ops: make([]*op, 0, defaultOps),

		scope:        scope,
		scopeStorage: storage,

		canAllocate: true,
	}
}

// Rollback restores the view to the state it had when OpIndex returned
// [restorePoint].
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		// The key was untouched by this view before the op.
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}
		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// DisableAllocation causes [Insert] to return an error if
// it would create a new key.
func (ts *TStateView) DisableAllocation() {
	ts.canAllocate = false
}

func (ts *TStateView) EnableAllocation() {
	ts.canAllocate = true
}

func (ts *TStateView) checkScope(k string, perm state.Permissions) bool {
	return ts.scope[k].Has(perm)
}

// GetValue returns the value associated with [key]. If [key] is not readable
// in this view an error is returned.
func (ts *TStateView) GetValue(_ context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if !ts.checkScope(k, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, _, exists := ts.getValue(k)
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(key string) ([]byte, bool, bool) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	if v, changed, exists := ts.ts.getChangedValue(context.TODO(), key); changed {
		return v, true, exists
	}
	if v, ok := ts.scopeStorage[key]; ok {
		return v, false, true
	}
	return nil, false, false
}

// Insert sets or updates [key]. Creating a key requires [state.Allocate],
// updating one requires [state.Write].
//
// Any bytes passed into [Insert] will be consumed by [TState] and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	k := string(key)
	if !keys.VerifyValue(k, value) {
		return ErrInvalidKeyValue
	}
	past, changed, exists := ts.getValue(k)
	if exists {
		if !ts.checkScope(k, state.Write) {
			return ErrInvalidKeyOrPermission
		}
	} else {
		if !ts.checkScope(k, state.Allocate) {
			return ErrInvalidKeyOrPermission
		}
		if !ts.canAllocate {
			return ErrAllocationDisabled
		}
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key]. Removing a key that does not exist is a no-op.
func (ts *TStateView) Remove(_ context.Context, key []byte) error {
	k := string(key)
	if !ts.checkScope(k, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	past, changed, exists := ts.getValue(k)
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit publishes every pending change to the parent [TState].
func (ts *TStateView) Commit() {
	ts.ts.l.Lock()
	defer ts.ts.l.Unlock()

	for k, v := range ts.pendingChangedKeys {
		ts.ts.changedKeys[k] = v
	}
	ts.ts.ops += len(ts.ops)
}
