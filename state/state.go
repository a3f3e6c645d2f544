// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store that committed state is read from and
// written to.
type Database interface {
	database.KeyValueReader
	database.Batcher
}

// Reader adapts a [database.KeyValueReader] to [Immutable].
type Reader struct {
	db database.KeyValueReader
}

func NewReader(db database.KeyValueReader) *Reader {
	return &Reader{db: db}
}

func (r *Reader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}

// Fetch reads every key in [ks] from [im]. Keys that do not exist are
// omitted from the result.
func Fetch(ctx context.Context, im Immutable, ks Keys) (map[string][]byte, error) {
	values := make(map[string][]byte, len(ks))
	for k := range ks {
		v, err := im.GetValue(ctx, []byte(k))
		switch {
		case err == nil:
			values[k] = v
		case err == database.ErrNotFound:
		default:
			return nil, err
		}
	}
	return values, nil
}
