// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/sysvar"
)

//go:generate go run go.uber.org/mock/mockgen -package=rpc -destination=mock_controller.go . Controller

// Controller is the node surface served over RPC.
type Controller interface {
	Logger() logging.Logger
	Tracer() trace.Tracer

	Clock() sysvar.Clock
	EpochSchedule() sysvar.EpochSchedule

	// Submit executes [tx]. A nil result means the transaction was rejected
	// before execution.
	Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error)
	ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error)
	// Airdrop credits the faucet amount to [addr] and returns its new
	// balance.
	Airdrop(ctx context.Context, addr codec.Address) (uint64, error)
	RecentResults() []*chain.Result
}
