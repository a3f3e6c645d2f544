// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Callback processes one message received from [*Connection].
type Callback func([]byte, *Connection)

// Connection is a single websocket peer. One goroutine reads from the socket
// and one writes to it; whichever stops first tears the connection down.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	active    atomic.Bool
	closeOnce sync.Once
}

func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send queues [msg] and returns false if the connection can no longer accept
// messages.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to send message", zap.Error(err))
		return false
	}
	return true
}

func (c *Connection) close() {
	c.closeOnce.Do(func() {
		c.active.Store(false)
		c.s.removeConnection(c)
		_ = c.mb.Close()
		_ = c.conn.Close()
	})
}

func (c *Connection) extendReadDeadline(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
}

func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	if err := c.extendReadDeadline(""); err != nil {
		return
	}
	c.conn.SetPongHandler(c.extendReadDeadline)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected websocket close", zap.Error(err))
			}
			return
		}
		if c.s.callback == nil {
			continue
		}
		msgs, err := ParseBatchMessage(c.s.config.MaxReadMessageSize, msg)
		if err != nil {
			c.s.log.Debug("unable to parse websocket batch",
				zap.Stringer("remote", c.RemoteAddr()),
				zap.Error(err),
			)
			return
		}
		for _, m := range msgs {
			c.s.callback(m, c)
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		var err error
		select {
		case msg, ok := <-c.mb.Queue:
			if !ok {
				// Buffer closed, say goodbye.
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			err = c.write(websocket.BinaryMessage, msg)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			c.s.log.Debug("closing websocket",
				zap.Stringer("remote", c.RemoteAddr()),
				zap.Error(err),
			)
			return
		}
	}
}
