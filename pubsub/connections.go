// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a concurrency-safe set of peers. The server keeps one for
// every open socket and each subscription keeps its own.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

// List returns a snapshot of the peers in [c].
func (c *Connections) List() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

// Add returns false if [conn] was already in [c].
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

func (c *Connections) Remove(conns ...*Connection) {
	if len(conns) == 0 {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns.Remove(conns...)
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}
