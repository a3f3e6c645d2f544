// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// Upper bound of the batch framing added on top of the payloads.
const batchOverhead = 4 + maxMessageBatchSize*4

// MessageBuffer batches outbound messages into frames holding at most
// maxSize payload bytes. A frame is queued when the next message would not
// fit, when it holds [maxMessageBatchSize] messages, or [timeout] after its
// first message.
type MessageBuffer struct {
	Queue chan []byte

	l       sync.Mutex
	log     logging.Logger
	maxSize int
	timeout time.Duration
	timer   *timer.Timer
	closed  bool

	batch     [][]byte
	batchSize int
}

func NewMessageBuffer(log logging.Logger, pending int, maxSize int, timeout time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue:   make(chan []byte, pending),
		log:     log,
		maxSize: maxSize,
		timeout: timeout,
	}
	m.timer = timer.NewTimer(func() {
		m.l.Lock()
		defer m.l.Unlock()

		if !m.closed {
			m.flush("timeout")
		}
	})
	go m.timer.Dispatch()
	return m
}

// flush queues the current batch without blocking. Assumes [m.l] is held.
func (m *MessageBuffer) flush(reason string) {
	if len(m.batch) == 0 {
		return
	}
	count := len(m.batch)
	msg, err := CreateBatchMessage(m.maxSize+batchOverhead, m.batch)
	m.batch = nil
	m.batchSize = 0
	if err != nil {
		m.log.Debug("unable to create batch message", zap.Error(err))
		return
	}
	select {
	case m.Queue <- msg:
		m.log.Verbo("queued batch", zap.String("reason", reason), zap.Int("count", count))
	default:
		m.log.Debug("dropped batch", zap.String("reason", reason), zap.Int("count", count))
	}
}

// Close queues anything pending and closes [m.Queue]. Draining the queue is
// left to the caller.
func (m *MessageBuffer) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.flush("close")
	m.timer.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}

func (m *MessageBuffer) Send(msg []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	switch {
	case m.closed:
		return ErrClosed
	case len(msg) > m.maxSize:
		return ErrMessageTooLarge
	}

	if m.batchSize+len(msg) > m.maxSize || len(m.batch) == maxMessageBatchSize {
		m.timer.Cancel()
		m.flush("full")
	}
	m.batch = append(m.batch, msg)
	m.batchSize += len(msg)
	if len(m.batch) == 1 {
		m.timer.SetTimeoutIn(m.timeout)
	}
	return nil
}
