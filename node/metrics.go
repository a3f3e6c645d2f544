// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

type nodeMetrics struct {
	submitted prometheus.Counter
	airdrops  prometheus.Counter

	airdropped atomic.Uint64
}

func newMetrics() (*prometheus.Registry, *nodeMetrics, error) {
	r := prometheus.NewRegistry()
	m := &nodeMetrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rpc",
			Name:      "submitted_txs",
			Help:      "number of transactions submitted over rpc",
		}),
		airdrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "faucet",
			Name:      "airdrops",
			Help:      "number of faucet airdrops",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.submitted),
		r.Register(m.airdrops),
		r.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "faucet",
			Name:      "airdropped_lamports",
			Help:      "lamports credited by the faucet since start",
		}, func() float64 {
			return float64(m.airdropped.Load())
		})),
	)
	return r, m, errs.Err
}
