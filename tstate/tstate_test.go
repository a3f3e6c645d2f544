// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/keys"
	"github.com/bgl-labs/glyphs/state"
)

var (
	testVal = []byte("value")

	key1    = []byte(keys.EncodeChunks([]byte("key1"), 1))
	key1str = string(key1)
	key2    = []byte(keys.EncodeChunks([]byte("key2"), 2))
	key2str = string(key2)
	key3    = []byte(keys.EncodeChunks([]byte("key3"), 3))
	key3str = string(key3)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	// No Scope
	tsv := ts.NewView(state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, key1), ErrInvalidKeyOrPermission)
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.Read}, map[string][]byte{key1str: testVal})
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err, "unable to get value")
	require.Equal(testVal, val, "value was not saved correctly")
}

func TestGetValueNoStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.All}, map[string][]byte{})
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound, "data should not exist")
}

func TestPermissions(t *testing.T) {
	tests := []struct {
		name       string
		permission state.Permissions
		stored     bool
		readErr    error
		insertErr  error
		removeErr  error
	}{
		{
			name:       "read only existing key",
			permission: state.Read,
			stored:     true,
			insertErr:  ErrInvalidKeyOrPermission,
			removeErr:  ErrInvalidKeyOrPermission,
		},
		{
			name:       "write existing key",
			permission: state.Write,
			stored:     true,
		},
		{
			name:       "write cannot allocate",
			permission: state.Write,
			stored:     false,
			readErr:    database.ErrNotFound,
			insertErr:  ErrInvalidKeyOrPermission,
		},
		{
			name:       "allocate new key",
			permission: state.Allocate,
			stored:     false,
			readErr:    database.ErrNotFound,
			removeErr:  ErrInvalidKeyOrPermission,
		},
		{
			name:       "allocate cannot update",
			permission: state.Allocate,
			stored:     true,
			insertErr:  ErrInvalidKeyOrPermission,
			removeErr:  ErrInvalidKeyOrPermission,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			storage := map[string][]byte{}
			if tt.stored {
				storage[key1str] = testVal
			}

			tsv := New(1).NewView(state.Keys{key1str: tt.permission}, storage)
			_, err := tsv.GetValue(ctx, key1)
			require.ErrorIs(err, tt.readErr)
			require.ErrorIs(tsv.Insert(ctx, key1, testVal), tt.insertErr)
			require.ErrorIs(tsv.Remove(ctx, key1), tt.removeErr)
		})
	}
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.All}, map[string][]byte{})

	tsv.DisableAllocation()
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrAllocationDisabled)
	tsv.EnableAllocation()

	require.NoError(tsv.Insert(ctx, key1, testVal))
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert was not added as an operation")
	require.Equal(testVal, val, "value was not set correctly")

	// Check commit
	tsv.Commit()
	require.Equal(1, ts.OpIndex(), "insert was not added as an operation")
}

func TestInsertInvalidValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := New(1).NewView(state.Keys{key1str: state.All}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, key1, make([]byte, 65)), ErrInvalidKeyValue)
	require.NoError(tsv.Insert(ctx, key1, make([]byte, 64)))
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(
		state.Keys{key1str: state.All, key2str: state.All, key3str: state.All},
		map[string][]byte{key2str: testVal, key3str: testVal},
	)
	require.NoError(tsv.Insert(ctx, key1, []byte("a")))
	restore := tsv.OpIndex()

	require.NoError(tsv.Insert(ctx, key1, []byte("b")))
	require.NoError(tsv.Insert(ctx, key2, []byte("c")))
	require.NoError(tsv.Remove(ctx, key3))
	require.Equal(4, tsv.OpIndex())

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())

	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("a"), val)
	val, err = tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)
	val, err = tsv.GetValue(ctx, key3)
	require.NoError(err)
	require.Equal(testVal, val)

	tsv.Rollback(ctx, 0)
	_, err = tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.PendingChanges())
}

func TestRollbackAfterRemove(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := New(1).NewView(state.Keys{key1str: state.All}, map[string][]byte{key1str: testVal})
	require.NoError(tsv.Remove(ctx, key1))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, key1, []byte("new")))

	tsv.Rollback(ctx, restore)
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.Write}, map[string][]byte{key1str: testVal})
	require.NoError(tsv.Remove(ctx, key1))
	tsv.Commit()

	// A later view with stale storage still sees the delete.
	tsv = ts.NewView(state.Keys{key1str: state.Write}, map[string][]byte{key1str: testVal})
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestUncommittedViewIsInvisible(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key1str: state.All}, map[string][]byte{})
	require.NoError(tsv.Insert(ctx, key1, testVal))

	other := ts.NewView(state.Keys{key1str: state.Read}, map[string][]byte{})
	_, err := other.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(ts.PendingChanges())
}

func TestWriteChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(key2, testVal))

	ts := New(10)
	require.NoError(ts.Insert(ctx, key3, []byte("seed")))
	tsv := ts.NewView(
		state.Keys{key1str: state.All, key2str: state.All},
		map[string][]byte{key2str: testVal},
	)
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.NoError(tsv.Remove(ctx, key2))
	tsv.Commit()
	require.Equal(3, ts.PendingChanges())

	batch := db.NewBatch()
	require.NoError(ts.WriteChanges(ctx, batch, trace.Noop))
	require.NoError(batch.Write())

	val, err := db.Get(key1)
	require.NoError(err)
	require.Equal(testVal, val)
	has, err := db.Has(key2)
	require.NoError(err)
	require.False(has)
	val, err = db.Get(key3)
	require.NoError(err)
	require.Equal([]byte("seed"), val)
}
