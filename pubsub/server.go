// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `json:"maxReadMessageSize"`
	// Batched frames are flushed once they reach this size.
	MaxWriteMessageSize int `json:"maxWriteMessageSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum time to hold a message before flushing its batch.
	MaxMessageWait time.Duration `json:"maxMessageWait"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:      readBufferSize,
		WriteBufferSize:     writeBufferSize,
		WriteWait:           writeWait,
		PongWait:            pongWait,
		PingPeriod:          pingPeriod,
		MaxReadMessageSize:  maxReadMessageSize,
		MaxWriteMessageSize: targetWriteMessageSize,
		MaxPendingMessages:  maxPendingMessages,
		MaxMessageWait:      writeMaxBatchDuration,
	}
}

// Server maintains the set of active clients and sends messages to them.
//
// Mount it on an HTTP router and connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   *ServerConfig
	upgrader websocket.Upgrader
	// conns a set of all our connections
	conns *Connections
	// Callback function when server receives a message
	callback Callback
}

// New returns a new Server instance. [callback] is invoked for every
// message received from a peer if not nil.
func New(log logging.Logger, config *ServerConfig, callback Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			// Origin checks happen in the HTTP server middleware.
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: callback,
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	}
	s.addConnection(conn)
}

// Publish sends [msg] to every connection in [conns] that is still
// attached to [s]. Connections that could not accept the message are
// returned so callers can drop their subscriptions.
func (s *Server) Publish(msg []byte, conns *Connections) []*Connection {
	inactive := []*Connection{}
	for _, conn := range conns.List() {
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to subscribed connection")
			inactive = append(inactive, conn)
		}
	}
	return inactive
}

// Broadcast sends [msg] to every connected peer.
func (s *Server) Broadcast(msg []byte) {
	_ = s.Publish(msg, s.conns)
}

// Connections returns the live connection set.
func (s *Server) Connections() *Connections {
	return s.conns
}

// addConnection adds [conn] to the servers connection set and starts go
// routines for reading and writing messages for the connection.
func (s *Server) addConnection(conn *Connection) {
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
