// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/pubsub"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsMaxPending       = 1024
	wsMaxWriteSize     = 128 * units.KiB
	wsMaxBatchWait     = 10 * time.Millisecond
)

type txMessage struct {
	txID   ids.ID
	result *chain.Result
	reason string
}

type WebSocketClient struct {
	conn *websocket.Conn
	mb   *pubsub.MessageBuffer

	readStopped  chan struct{}
	writeStopped chan struct{}
	done         chan struct{}

	pendingTxs     chan *txMessage
	pendingResults chan *chain.Result

	pl      sync.Mutex
	pending map[ids.ID]struct{}

	cl  sync.Once
	err error
}

// NewWebSocketClient dials the streaming endpoint of the node at [uri]
// (an http(s) base URL).
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1) + WebSocketEndpoint
	dialer := &websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, resp, err := dialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	_ = resp.Body.Close()

	c := &WebSocketClient{
		conn:           conn,
		mb:             pubsub.NewMessageBuffer(logging.NoLog{}, wsMaxPending, wsMaxWriteSize, wsMaxBatchWait),
		readStopped:    make(chan struct{}),
		writeStopped:   make(chan struct{}),
		done:           make(chan struct{}),
		pendingTxs:     make(chan *txMessage, wsMaxPending),
		pendingResults: make(chan *chain.Result, wsMaxPending),
		pending:        map[ids.ID]struct{}{},
	}
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

func (c *WebSocketClient) readLoop() {
	defer close(c.readStopped)

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			c.err = err
			return
		}
		msgs, err := pubsub.ParseBatchMessage(consts.NetworkSizeLimit, frame)
		if err != nil {
			c.err = err
			return
		}
		for _, msg := range msgs {
			if err := c.dispatch(msg); err != nil {
				c.err = err
				return
			}
		}
	}
}

func (c *WebSocketClient) dispatch(msg []byte) error {
	switch msg[0] {
	case TxMode:
		txID, result, reason, err := UnpackTxMessage(msg)
		if err != nil {
			return err
		}
		select {
		case c.pendingTxs <- &txMessage{txID: txID, result: result, reason: reason}:
		case <-c.done:
			return ErrClosed
		}
	case ResultMode:
		result, err := UnpackResultMessage(msg)
		if err != nil {
			return err
		}
		select {
		case c.pendingResults <- result:
		case <-c.done:
			return ErrClosed
		}
	default:
		return ErrUnexpectedMode
	}
	return nil
}

func (c *WebSocketClient) writeLoop() {
	defer close(c.writeStopped)

	for frame := range c.mb.Queue {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}

// RegisterResults subscribes to the outcome of every executed transaction.
func (c *WebSocketClient) RegisterResults() error {
	return c.mb.Send([]byte{ResultMode})
}

// ListenResult blocks until the next streamed result arrives.
func (c *WebSocketClient) ListenResult(ctx context.Context) (*chain.Result, error) {
	select {
	case r := <-c.pendingResults:
		return r, nil
	case <-c.readStopped:
		return nil, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterTx submits [tx]. Its outcome is delivered by [ListenTx].
func (c *WebSocketClient) RegisterTx(tx *chain.Transaction) error {
	b, err := tx.Bytes()
	if err != nil {
		return err
	}
	txID, err := tx.ID()
	if err != nil {
		return err
	}
	c.pl.Lock()
	c.pending[txID] = struct{}{}
	c.pl.Unlock()
	return c.mb.Send(append([]byte{TxMode}, b...))
}

// ListenTx blocks until the outcome of a registered transaction arrives. A
// transaction rejected before execution returns a non-nil first error and
// no result.
func (c *WebSocketClient) ListenTx(ctx context.Context) (ids.ID, error, *chain.Result, error) {
	select {
	case msg := <-c.pendingTxs:
		c.pl.Lock()
		delete(c.pending, msg.txID)
		c.pl.Unlock()
		if msg.result == nil {
			return msg.txID, errors.New(msg.reason), nil, nil
		}
		return msg.txID, nil, msg.result, nil
	case <-c.readStopped:
		return ids.Empty, nil, nil, c.err
	case <-ctx.Done():
		return ids.Empty, nil, nil, ctx.Err()
	}
}

// Pending lists registered transactions whose outcome has not been
// received.
func (c *WebSocketClient) Pending() []ids.ID {
	c.pl.Lock()
	defer c.pl.Unlock()

	return maps.Keys(c.pending)
}

// Close flushes queued messages and closes the connection.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		_ = c.mb.Close()
		<-c.writeStopped
		close(c.done)
		err = c.conn.Close()
		<-c.readStopped
	})
	return err
}
