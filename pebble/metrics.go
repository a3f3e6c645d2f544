// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

// sampled gauges are refreshed from [pebble.Metrics] every [metricsInterval].
var sampled = []struct {
	name string
	help string
	read func(*pebble.Metrics) float64
}{
	{"tombstone_count", "approximate count of internal tombstones", func(m *pebble.Metrics) float64 {
		return float64(m.Keys.TombstoneCount)
	}},
	{"disk_space_usage", "bytes used by the database on disk", func(m *pebble.Metrics) float64 {
		return float64(m.DiskSpaceUsage())
	}},
	{"obsolete_table_size", "bytes in tables no longer referenced by the db", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ObsoleteSize)
	}},
	{"zombie_table_size", "bytes in unreferenced tables still held by iterators", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ZombieSize)
	}},
	{"obsolete_wal_size", "bytes in WAL files no longer needed by the db", func(m *pebble.Metrics) float64 {
		return float64(m.WAL.ObsoletePhysicalSize)
	}},
}

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager
	commitSize metric.Averager

	commits           prometheus.Counter
	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	gauges []prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	averager := func(name, help string) metric.Averager {
		a, err := metric.NewAverager(namespace+"_"+name, help, r)
		errs.Add(err)
		return a
	}
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
		errs.Add(r.Register(c))
		return c
	}
	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		errs.Add(r.Register(g))
		return g
	}

	m := &metrics{
		writeStall:        averager("write_stall", "time spent waiting for disk write"),
		getLatency:        averager("read_latency", "time spent waiting for db get"),
		commitSize:        averager("commit_size", "bytes written per batch commit"),
		commits:           counter("commits", "number of committed batches"),
		l0Compactions:     counter("l0_compactions", "number of l0 compactions"),
		otherCompactions:  counter("other_compactions", "number of l1+ compactions"),
		activeCompactions: gauge("active_compactions", "number of active compactions"),
		gauges:            make([]prometheus.Gauge, len(sampled)),
	}
	for i, s := range sampled {
		m.gauges[i] = gauge(s.name, s.help)
	}
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		db.metrics.l0Compactions.Inc()
		return
	}
	db.metrics.otherCompactions.Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			stats := db.db.Metrics()
			for i, s := range sampled {
				db.metrics.gauges[i].Set(s.read(stats))
			}
		case <-db.closing:
			return
		}
	}
}
