// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsExecuted prometheus.Counter
	txsFailed   prometheus.Counter
	txsRejected prometheus.Counter

	stateChanges prometheus.Counter
	invocations  *prometheus.CounterVec

	executeLatency metric.Averager
	waitLocks      metric.Averager
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()

	executeLatency, err := metric.NewAverager(
		"chain_execute",
		"time spent executing a transaction",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	waitLocks, err := metric.NewAverager(
		"chain_wait_locks",
		"time spent waiting for account locks",
		r,
	)
	if err != nil {
		return nil, nil, err
	}

	m := &metrics{
		txsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_executed",
			Help:      "number of transactions committed",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of transactions aborted by an instruction",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of transactions rejected before execution",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of state changes",
		}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "instructions",
			Help:      "number of top-level instructions by program",
		}, []string{"program"}),
		executeLatency: executeLatency,
		waitLocks:      waitLocks,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsExecuted),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.stateChanges),
		r.Register(m.invocations),
	)
	return r, m, errs.Err
}
