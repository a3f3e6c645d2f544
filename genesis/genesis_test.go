// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/chain/chaintest"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/sysvar"
)

var (
	alice = codec.Address{1}
	bob   = codec.Address{2}
)

func TestLoad(t *testing.T) {
	require := require.New(t)

	g, err := Load([]byte(`
collectionUpdateAuthority: ` + alice.String() + `
customAllocation:
  - address: ` + bob.String() + `
    lamports: 5000000000
rules:
  slotsPerEpoch: 8192
  leaderScheduleSlotOffset: 8192
  warmup: false
  slotDuration: 1s
  genesisTime: 1700000000
`))
	require.NoError(err)
	require.Equal(alice, g.CollectionUpdateAuthority)
	require.Equal([]*CustomAllocation{{Address: bob, Lamports: 5_000_000_000}}, g.CustomAllocation)
	require.Equal(time.Second, g.Rules.SlotDuration)

	schedule, err := g.Rules.EpochSchedule()
	require.NoError(err)
	require.Equal(uint64(8192), schedule.FirstSlotInEpoch(1))

	clock := g.Rules.SlotClock(schedule, time.Now())
	require.Equal(uint64(10), clock.SlotAt(time.Unix(1700000010, 0)))

	b, err := g.Marshal()
	require.NoError(err)
	again, err := Load(b)
	require.NoError(err)
	require.Equal(g, again)
}

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	g, err := Load([]byte(`customAllocation: []`))
	require.NoError(err)
	require.Equal(NewDefaultRules(), g.Rules)
	schedule, err := g.Rules.EpochSchedule()
	require.NoError(err)
	require.Equal(sysvar.DefaultEpochSchedule(), schedule)

	_, err = Load([]byte(`unknownField: 1`))
	require.Error(err)

	_, err = Load([]byte("rules:\n  slotsPerEpoch: 1\n"))
	require.ErrorIs(err, sysvar.ErrInvalidSlotsPerEpoch)
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)

	env := chaintest.NewEnv(t, system.New(), core.New(), glyphs.New())
	g := NewDefaultGenesis([]*CustomAllocation{
		{Address: alice, Lamports: 100},
		{Address: bob, Lamports: 200},
	})
	g.CollectionUpdateAuthority = alice
	require.NoError(env.Runtime.Mutate(context.Background(), g.StateKeys(), func(ctx context.Context, mu state.Mutable) error {
		return g.InitializeState(ctx, trace.Noop, mu)
	}))

	require.Equal(uint64(100), env.Account(t, alice).Lamports)
	require.Equal(uint64(200), env.Account(t, bob).Lamports)

	acct := env.Account(t, glyphs.CollectionAddress)
	require.Equal(core.ID, acct.Owner)
	collection, err := core.DecodeCollection(acct.Data)
	require.NoError(err)
	require.Equal(alice, codec.Address(collection.UpdateAuthority))
	require.True(collection.IsAuthority(glyphs.GlobalSignerAddress))
}
