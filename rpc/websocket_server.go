// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/pubsub"
)

// WebSocketServer streams execution results and accepts transactions over a
// single websocket.
type WebSocketServer struct {
	c Controller
	s *pubsub.Server

	resultListeners *pubsub.Connections
}

func NewWebSocketServer(c Controller, cfg *pubsub.ServerConfig) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		c:               c,
		resultListeners: pubsub.NewConnections(),
	}
	w.s = pubsub.New(c.Logger(), cfg, w.MessageCallback())
	return w, w.s
}

// AcceptResult forwards [r] to every result listener.
func (w *WebSocketServer) AcceptResult(r *chain.Result) {
	if w.resultListeners.Len() == 0 {
		return
	}
	bytes, err := PackResultMessage(r)
	if err != nil {
		w.c.Logger().Error("failed to pack result", zap.Error(err))
		return
	}
	w.resultListeners.Remove(w.s.Publish(bytes, w.resultListeners)...)
}

func (w *WebSocketServer) submit(ctx context.Context, msgBytes []byte, c *pubsub.Connection) {
	log := w.c.Logger()
	tx, err := chain.UnmarshalTx(msgBytes)
	if err != nil {
		log.Error("failed to unmarshal tx",
			zap.Int("len", len(msgBytes)),
			zap.Error(err),
		)
		return
	}
	txID, err := tx.ID()
	if err != nil {
		log.Error("failed to compute tx id", zap.Error(err))
		return
	}
	result, err := w.c.Submit(ctx, tx)
	w.reply(txID, result, err, c)
}

func (w *WebSocketServer) reply(txID ids.ID, result *chain.Result, err error, c *pubsub.Connection) {
	if result != nil {
		err = nil
	}
	bytes, perr := PackTxMessage(txID, result, err)
	if perr != nil {
		w.c.Logger().Error("failed to pack tx message", zap.Error(perr))
		return
	}
	if !c.Send(bytes) {
		w.c.Logger().Debug("dropping tx outcome", zap.Stringer("txID", txID))
	}
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	return func(msgBytes []byte, c *pubsub.Connection) {
		ctx, span := w.c.Tracer().Start(context.Background(), "WebSocketServer.Callback")
		defer span.End()

		log := w.c.Logger()
		// Check empty messages
		if len(msgBytes) == 0 {
			log.Error("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
			)
			return
		}

		switch msgBytes[0] {
		case ResultMode:
			if w.resultListeners.Add(c) {
				log.Debug("added result listener", zap.Stringer("remote", c.RemoteAddr()))
			}
		case TxMode:
			w.submit(ctx, msgBytes[1:], c)
		default:
			log.Error("unexpected message type",
				zap.Int("len", len(msgBytes)),
				zap.Uint8("mode", msgBytes[0]),
			)
		}
	}
}
