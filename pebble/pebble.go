// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bgl-labs/glyphs/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int  `json:"cacheSize"`
	BytesPerSync                int  `json:"bytesPerSync"`
	WALBytesPerSync             int  `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int  `json:"memTableStopWritesThreshold"`
	MemTableSize                int  `json:"memTableSize"`
	MaxOpenFiles                int  `json:"maxOpenFiles"`
	ConcurrentCompactions       int  `json:"concurrentCompactions"`
	Sync                        bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   256 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a [database.KeyValueReader] and [database.Batcher] backed by
// pebble. Writes only happen through batches.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOpts *pebble.WriteOptions

	closing chan struct{}
	closed  sync.Once
	wg      sync.WaitGroup
}

// New opens (or creates) the database in [file]. The returned registry holds
// the database metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics:   metrics,
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		closing:   make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                uint64(cfg.MemTableSize),
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a copy of the value stored at [key] or [database.ErrNotFound].
func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	v, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, closer.Close()
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		db:    db,
		batch: db.db.NewBatch(),
	}
}

func (db *Database) Close() error {
	err := database.ErrClosed
	db.closed.Do(func() {
		close(db.closing)
		db.wg.Wait()
		err = db.db.Close()
	})
	return err
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db    *Database
	batch *pebble.Batch
	ops   []batchOp
	size  int
}

func (b *batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	if err := b.batch.Commit(b.db.writeOpts); err != nil {
		return err
	}
	b.db.metrics.commits.Inc()
	b.db.metrics.commitSize.Observe(float64(b.size))
	return nil
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.delete {
			if err := w.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.key, op.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
