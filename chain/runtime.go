// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/neilotoole/errgroup"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/lockmap"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/sysvar"
	"github.com/bgl-labs/glyphs/tstate"
)

// Result is the outcome of a transaction.
type Result struct {
	TxID    ids.ID   `json:"txID"`
	Slot    uint64   `json:"slot"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Code    *uint32  `json:"code,omitempty"`
	Logs    []string `json:"logs"`
}

// Runtime executes transactions against a database. Each transaction is
// atomic: either every state change of every instruction is written in a
// single batch or nothing is. Transactions touching a common writable
// account are serialized.
type Runtime struct {
	log      logging.Logger
	tracer   trace.Tracer
	db       state.Database
	registry *Registry
	clock    sysvar.ClockSource
	schedule sysvar.EpochSchedule

	locks   *lockmap.Lockmap
	metrics *metrics

	sl          sync.RWMutex
	subscribers []func(*Result)
}

func NewRuntime(
	log logging.Logger,
	tracer trace.Tracer,
	db state.Database,
	registry *Registry,
	clock sysvar.ClockSource,
	schedule sysvar.EpochSchedule,
) (*Runtime, *prometheus.Registry, error) {
	r, m, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	return &Runtime{
		log:      log,
		tracer:   tracer,
		db:       db,
		registry: registry,
		clock:    clock,
		schedule: schedule,
		locks:    lockmap.New(1_024),
		metrics:  m,
	}, r, nil
}

func (r *Runtime) Registry() *Registry {
	return r.registry
}

func (r *Runtime) Clock() sysvar.Clock {
	return r.clock.Clock()
}

func (r *Runtime) EpochSchedule() sysvar.EpochSchedule {
	return r.schedule
}

// Subscribe registers [f] to be called with the result of every executed
// transaction, including failed ones.
func (r *Runtime) Subscribe(f func(*Result)) {
	r.sl.Lock()
	defer r.sl.Unlock()

	r.subscribers = append(r.subscribers, f)
}

func (r *Runtime) notify(result *Result) {
	r.sl.RLock()
	defer r.sl.RUnlock()

	for _, f := range r.subscribers {
		f(result)
	}
}

// Execute verifies and runs [tx]. A transaction rejected before execution
// returns a nil [Result]. A transaction aborted by an instruction returns its
// [Result] (with logs) and an [*InstructionError].
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Execute")
	defer span.End()

	start := time.Now()
	defer func() {
		r.metrics.executeLatency.Observe(float64(time.Since(start)))
	}()

	if err := tx.Verify(); err != nil {
		r.metrics.txsRejected.Inc()
		return nil, err
	}
	id, err := tx.ID()
	if err != nil {
		r.metrics.txsRejected.Inc()
		return nil, err
	}

	ks := tx.StateKeys()
	ks.Add(string(storage.TxKey(id)), state.All)

	var (
		result = &Result{TxID: id, Logs: []string{}}
		ierr   *InstructionError
	)
	err = r.apply(ctx, ks, func(ctx context.Context, view *tstate.TStateView) error {
		exists, slot, err := storage.GetTransaction(ctx, view, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s processed in slot %d", ErrDuplicateTx, id, slot)
		}

		clock := r.clock.Clock()
		result.Slot = clock.Slot
		root := r.rootContext(view, clock, &result.Logs)
		for i, ins := range tx.Instructions {
			if p, ok := r.registry.Lookup(ins.ProgramID); ok {
				r.metrics.invocations.WithLabelValues(p.Name()).Inc()
			}
			accounts := make([]AccountInfo, len(ins.Accounts))
			for j, meta := range ins.Accounts {
				accounts[j] = AccountInfo(meta)
			}
			if err := root.process(ctx, ins.ProgramID, accounts, ins.Data, 1); err != nil {
				ierr = &InstructionError{Index: i, Err: err}
				return ierr
			}
		}
		return storage.StoreTransaction(ctx, view, id, clock.Slot)
	})
	switch {
	case ierr != nil:
		r.metrics.txsFailed.Inc()
		result.Error = ierr.Error()
		if code, ok := ErrorCode(ierr); ok {
			result.Code = &code
		}
		r.log.Info("transaction failed",
			zap.Stringer("txID", id),
			zap.Uint64("slot", result.Slot),
			zap.Error(ierr),
		)
		r.notify(result)
		return result, ierr
	case err != nil:
		r.metrics.txsRejected.Inc()
		return nil, err
	}

	result.Success = true
	r.metrics.txsExecuted.Inc()
	r.log.Debug("transaction executed",
		zap.Stringer("txID", id),
		zap.Uint64("slot", result.Slot),
		zap.Int("instructions", len(tx.Instructions)),
	)
	r.notify(result)
	return result, nil
}

// ExecuteBatch runs [txs] concurrently. Transactions that share a writable
// account still execute one at a time, in no particular order.
func (r *Runtime) ExecuteBatch(ctx context.Context, txs []*Transaction) ([]*Result, []error) {
	var (
		results = make([]*Result, len(txs))
		errs    = make([]error, len(txs))
	)
	g, gctx := errgroup.WithContextN(ctx, runtime.NumCPU(), len(txs))
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			results[i], errs[i] = r.Execute(gctx, tx)
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

// Mutate runs [f] with write access to [ks] outside of any program. It is
// used for genesis and the faucet.
func (r *Runtime) Mutate(ctx context.Context, ks state.Keys, f func(context.Context, state.Mutable) error) error {
	ctx, span := r.tracer.Start(ctx, "Runtime.Mutate")
	defer span.End()

	return r.apply(ctx, ks, func(ctx context.Context, view *tstate.TStateView) error {
		return f(ctx, view)
	})
}

// ReadState reads [keys] from committed state.
func (r *Runtime) ReadState(_ context.Context, keys [][]byte) ([][]byte, []error) {
	values := make([][]byte, len(keys))
	errs := make([]error, len(keys))
	for i, k := range keys {
		values[i], errs[i] = r.db.Get(k)
	}
	return values, errs
}

// apply locks [ks], runs [f] on a fresh view and writes the changes if [f]
// succeeds. Nothing is written if [f] fails.
func (r *Runtime) apply(
	ctx context.Context,
	ks state.Keys,
	f func(context.Context, *tstate.TStateView) error,
) error {
	lockStart := time.Now()
	release := r.locks.Acquire(ks)
	defer release()
	r.metrics.waitLocks.Observe(float64(time.Since(lockStart)))

	values, err := state.Fetch(ctx, state.NewReader(r.db), ks)
	if err != nil {
		return err
	}
	ts := tstate.New(len(ks))
	view := ts.NewView(ks, values)
	if err := f(ctx, view); err != nil {
		view.Rollback(ctx, 0)
		return err
	}
	view.Commit()

	batch := r.db.NewBatch()
	if err := ts.WriteChanges(ctx, batch, r.tracer); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	r.metrics.stateChanges.Add(float64(ts.PendingChanges()))
	return nil
}

func (r *Runtime) rootContext(mu state.Mutable, clock sysvar.Clock, logs *[]string) *InvokeContext {
	return &InvokeContext{
		registry: r.registry,
		log:      r.log,
		mu:       mu,
		clock:    clock,
		schedule: r.schedule,
		logs:     logs,
	}
}
