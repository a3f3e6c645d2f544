// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/trace"
	"gopkg.in/yaml.v2"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

type CustomAllocation struct {
	Address  codec.Address `json:"address" yaml:"address"`
	Lamports uint64        `json:"lamports" yaml:"lamports"`
}

// Genesis is the initial state of a chain. It is read from YAML, so JSON
// files load as well.
type Genesis struct {
	// Update authority of the glyphs collection. The global signer is always
	// its update delegate.
	CollectionUpdateAuthority codec.Address       `json:"collectionUpdateAuthority" yaml:"collectionUpdateAuthority"`
	CustomAllocation          []*CustomAllocation `json:"customAllocation" yaml:"customAllocation"`
	Rules                     *Rules              `json:"rules" yaml:"rules"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		CustomAllocation: customAllocations,
		Rules:            NewDefaultRules(),
	}
}

// Load parses [b] on top of the default genesis.
func Load(b []byte) (*Genesis, error) {
	g := NewDefaultGenesis(nil)
	if err := yaml.UnmarshalStrict(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis: %w", err)
	}
	if g.Rules == nil {
		g.Rules = NewDefaultRules()
	}
	if _, err := g.Rules.EpochSchedule(); err != nil {
		return nil, err
	}
	return g, nil
}

func LoadFile(path string) (*Genesis, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(b)
}

func (g *Genesis) Marshal() ([]byte, error) {
	return yaml.Marshal(g)
}

// StateKeys are the keys [InitializeState] writes.
func (g *Genesis) StateKeys() state.Keys {
	ks := glyphs.GenesisKeys()
	for _, alloc := range g.CustomAllocation {
		ks.Add(string(storage.AccountKey(alloc.Address)), state.All)
	}
	return ks
}

// InitializeState funds every allocation and creates the glyphs collection.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		var err error
		supply, err = smath.Add(supply, alloc.Lamports)
		if err != nil {
			return err
		}
		if _, err := storage.AddLamports(ctx, mu, alloc.Address, alloc.Lamports); err != nil {
			return fmt.Errorf("%w: addr=%s, lamports=%d", err, alloc.Address, alloc.Lamports)
		}
	}
	return glyphs.SeedCollection(ctx, mu, g.CollectionUpdateAuthority)
}
