// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/config"
	"github.com/bgl-labs/glyphs/genesis"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/rpc"
	"github.com/bgl-labs/glyphs/server"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/sysvar"
	"github.com/bgl-labs/glyphs/utils"

	htrace "github.com/bgl-labs/glyphs/trace"
)

const MetricsEndpoint = "/metrics"

var _ rpc.Controller = (*Node)(nil)

type closableDatabase interface {
	state.Database
	Close() error
}

// Node runs the glyphs programs against a local database and serves them
// over HTTP.
type Node struct {
	log     logging.Logger
	tracer  trace.Tracer
	config  *config.Config
	genesis *genesis.Genesis

	gatherer metrics.MultiGatherer
	metrics  *nodeMetrics
	db       closableDatabase
	runtime  *chain.Runtime
	server   *server.Server
	ws       *rpc.WebSocketServer

	results *utils.BoundedBuffer[*chain.Result]
	running atomic.Bool
}

// New opens the database, writes genesis on first start and registers the
// RPC routes on [listener].
func New(
	ctx context.Context,
	log logging.Logger,
	cfg *config.Config,
	g *genesis.Genesis,
	listener net.Listener,
) (*Node, error) {
	if err := glyphs.Verify(); err != nil {
		return nil, err
	}
	schedule, err := g.Rules.EpochSchedule()
	if err != nil {
		return nil, err
	}
	tracer, err := htrace.New(cfg.GetTraceConfig())
	if err != nil {
		return nil, err
	}
	results, err := utils.NewBoundedBuffer[*chain.Result](cfg.RecentResults, nil)
	if err != nil {
		return nil, err
	}

	n := &Node{
		log:      log,
		tracer:   tracer,
		config:   cfg,
		genesis:  g,
		gatherer: metrics.NewPrefixGatherer(),
		results:  results,
	}
	if cfg.Ephemeral {
		n.db = memdb.New()
	} else {
		n.db, err = storage.New(cfg.Pebble, cfg.DataDir, "db", n.gatherer)
		if err != nil {
			return nil, err
		}
	}
	if err := n.initialize(ctx, schedule, listener); err != nil {
		_ = n.db.Close()
		return nil, err
	}
	return n, nil
}

func (n *Node) initialize(ctx context.Context, schedule sysvar.EpochSchedule, listener net.Listener) error {
	glyphsProgram := glyphs.New()
	registry, err := chain.NewRegistry(system.New(), core.New(), glyphsProgram)
	if err != nil {
		return err
	}
	clock := n.genesis.Rules.SlotClock(schedule, time.Now())
	runtime, runtimeRegistry, err := chain.NewRuntime(n.log, n.tracer, n.db, registry, clock, schedule)
	if err != nil {
		return err
	}
	n.runtime = runtime
	nodeRegistry, m, err := newMetrics()
	if err != nil {
		return err
	}
	n.metrics = m
	glyphsRegistry := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		glyphsProgram.Register(glyphsRegistry),
		n.gatherer.Register("runtime", runtimeRegistry),
		n.gatherer.Register("glyphs", glyphsRegistry),
		n.gatherer.Register("node", nodeRegistry),
	)
	if errs.Errored() {
		return errs.Err
	}

	if err := n.initializeState(ctx); err != nil {
		return err
	}

	jsonHandler, err := server.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(n))
	if err != nil {
		return err
	}
	ws, wsHandler := rpc.NewWebSocketServer(n, &n.config.Streaming)
	n.ws = ws
	n.runtime.Subscribe(n.accept)

	n.server = server.New(
		n.log,
		listener,
		n.config.HTTP,
		n.config.AllowedOrigins,
		n.config.AllowedHosts,
		n.config.ShutdownTimeout,
	)
	errs.Add(
		n.server.AddRoute(jsonHandler, rpc.JSONRPCEndpoint),
		n.server.AddRoute(wsHandler, rpc.WebSocketEndpoint),
		n.server.AddRoute(promhttp.HandlerFor(n.gatherer, promhttp.HandlerOpts{}), MetricsEndpoint),
	)
	return errs.Err
}

// initializeState writes genesis unless the collection already exists.
func (n *Node) initializeState(ctx context.Context) error {
	acct, err := storage.GetAccountFromState(ctx, n.runtime.ReadState, glyphs.CollectionAddress)
	if err != nil {
		return err
	}
	if !acct.Empty() {
		n.log.Info("found existing state", zap.Stringer("collection", glyphs.CollectionAddress))
		return nil
	}
	if err := n.runtime.Mutate(ctx, n.genesis.StateKeys(), func(ctx context.Context, mu state.Mutable) error {
		return n.genesis.InitializeState(ctx, n.tracer, mu)
	}); err != nil {
		return err
	}
	n.log.Info("initialized genesis",
		zap.Stringer("collection", glyphs.CollectionAddress),
		zap.Int("allocations", len(n.genesis.CustomAllocation)),
	)
	return nil
}

func (n *Node) accept(r *chain.Result) {
	n.results.Insert(r)
	n.ws.AcceptResult(r)
}

// Run serves requests until [ctx] is done or the server fails.
func (n *Node) Run(ctx context.Context) error {
	n.running.Store(true)
	n.log.Info("serving",
		zap.String("jsonrpc", rpc.JSONRPCEndpoint),
		zap.String("ws", rpc.WebSocketEndpoint),
		zap.String("metrics", MetricsEndpoint),
	)
	errc := make(chan error, 1)
	go func() {
		errc <- n.server.Dispatch()
	}()
	select {
	case <-ctx.Done():
		n.running.Store(false)
		if err := n.server.Shutdown(); err != nil {
			return err
		}
		<-errc
		return nil
	case err := <-errc:
		n.running.Store(false)
		return err
	}
}

func (n *Node) Close() error {
	errs := wrappers.Errs{}
	errs.Add(
		n.tracer.Close(),
		n.db.Close(),
	)
	return errs.Err
}

func (n *Node) Running() bool {
	return n.running.Load()
}

func (n *Node) Handler() http.Handler {
	return n.server.Handler()
}

func (n *Node) Runtime() *chain.Runtime {
	return n.runtime
}

func (n *Node) Logger() logging.Logger {
	return n.log
}

func (n *Node) Tracer() trace.Tracer {
	return n.tracer
}

func (n *Node) Clock() sysvar.Clock {
	return n.runtime.Clock()
}

func (n *Node) EpochSchedule() sysvar.EpochSchedule {
	return n.runtime.EpochSchedule()
}

func (n *Node) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	n.metrics.submitted.Inc()
	return n.runtime.Execute(ctx, tx)
}

func (n *Node) ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error) {
	return n.runtime.ReadState(ctx, keys)
}

func (n *Node) Airdrop(ctx context.Context, addr codec.Address) (uint64, error) {
	amount := n.config.FaucetAmount
	if amount == 0 {
		return 0, rpc.ErrFaucetDisabled
	}
	var balance uint64
	ks := state.Keys{string(storage.AccountKey(addr)): state.All}
	if err := n.runtime.Mutate(ctx, ks, func(ctx context.Context, mu state.Mutable) error {
		var err error
		balance, err = storage.AddLamports(ctx, mu, addr, amount)
		return err
	}); err != nil {
		return 0, err
	}
	n.metrics.airdrops.Inc()
	n.metrics.airdropped.Add(amount)
	return balance, nil
}

func (n *Node) RecentResults() []*chain.Result {
	return n.results.Items()
}
