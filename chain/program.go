// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/bgl-labs/glyphs/codec"
)

// Program is a native on-chain program. Execute must not mutate state after
// returning an error; the runtime discards the whole transaction anyway, so
// programs are free to abort at any point.
type Program interface {
	ID() codec.Address
	Name() string
	Execute(ctx context.Context, ic *InvokeContext, data []byte) error
}

// Registry maps program ids to their implementation.
type Registry struct {
	l        sync.RWMutex
	programs map[codec.Address]Program
}

func NewRegistry(programs ...Program) (*Registry, error) {
	r := &Registry{programs: make(map[codec.Address]Program, len(programs))}
	for _, p := range programs {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(p Program) error {
	r.l.Lock()
	defer r.l.Unlock()

	if _, ok := r.programs[p.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, p.ID())
	}
	r.programs[p.ID()] = p
	return nil
}

func (r *Registry) Lookup(id codec.Address) (Program, bool) {
	r.l.RLock()
	defer r.l.RUnlock()

	p, ok := r.programs[id]
	return p, ok
}

func (r *Registry) Programs() []Program {
	r.l.RLock()
	defer r.l.RUnlock()

	out := make([]Program, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, p)
	}
	return out
}
