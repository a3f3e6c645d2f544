// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/sysvar"
)

// Clock is a settable [sysvar.ClockSource].
type Clock struct {
	l        sync.Mutex
	schedule sysvar.EpochSchedule
	slot     uint64
}

func NewClock(schedule sysvar.EpochSchedule, slot uint64) *Clock {
	return &Clock{schedule: schedule, slot: slot}
}

func (c *Clock) SetSlot(slot uint64) {
	c.l.Lock()
	defer c.l.Unlock()

	c.slot = slot
}

func (c *Clock) Clock() sysvar.Clock {
	c.l.Lock()
	defer c.l.Unlock()

	return sysvar.Clock{
		Slot:  c.slot,
		Epoch: c.schedule.Epoch(c.slot),
	}
}

// Env is a runtime over an in-memory database.
type Env struct {
	Runtime *chain.Runtime
	DB      *memdb.Database
	Clock   *Clock
}

func NewEnv(t testing.TB, programs ...chain.Program) *Env {
	require := require.New(t)

	registry, err := chain.NewRegistry(programs...)
	require.NoError(err)
	schedule := sysvar.DefaultEpochSchedule()
	clock := NewClock(schedule, 1)
	db := memdb.New()
	rt, _, err := chain.NewRuntime(logging.NoLog{}, trace.Noop, db, registry, clock, schedule)
	require.NoError(err)
	return &Env{
		Runtime: rt,
		DB:      db,
		Clock:   clock,
	}
}

// SetAccount writes [acct] to [addr] directly.
func (e *Env) SetAccount(t testing.TB, addr codec.Address, acct *storage.Account) {
	ks := state.Keys{string(storage.AccountKey(addr)): state.All}
	require.NoError(t, e.Runtime.Mutate(context.Background(), ks, func(ctx context.Context, mu state.Mutable) error {
		return storage.SetAccount(ctx, mu, addr, acct)
	}))
}

// Fund credits [lamports] to the system-owned account [addr].
func (e *Env) Fund(t testing.TB, addr codec.Address, lamports uint64) {
	ks := state.Keys{string(storage.AccountKey(addr)): state.All}
	require.NoError(t, e.Runtime.Mutate(context.Background(), ks, func(ctx context.Context, mu state.Mutable) error {
		_, err := storage.AddLamports(ctx, mu, addr, lamports)
		return err
	}))
}

func (e *Env) Account(t testing.TB, addr codec.Address) *storage.Account {
	acct, err := storage.GetAccountFromState(context.Background(), e.Runtime.ReadState, addr)
	require.NoError(t, err)
	return acct
}

// NewKey returns a funded key.
func (e *Env) NewKey(t testing.TB, lamports uint64) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	if lamports > 0 {
		e.Fund(t, priv.Address(), lamports)
	}
	return priv
}

// Send signs and executes a transaction holding [instructions].
func (e *Env) Send(ctx context.Context, t testing.TB, signers []ed25519.PrivateKey, instructions ...*chain.Instruction) (*chain.Result, error) {
	tx := chain.NewTx(nextNonce(), instructions...)
	require.NoError(t, tx.Sign(signers...))
	return e.Runtime.Execute(ctx, tx)
}

var (
	nonceLock sync.Mutex
	nonce     uint64
)

func nextNonce() uint64 {
	nonceLock.Lock()
	defer nonceLock.Unlock()

	nonce++
	return nonce
}

// InstructionTest is a single parameterized test. It executes [Instructions]
// at [Slot] and checks the returned error before running [Assertion].
type InstructionTest struct {
	Name string

	Slot         uint64
	Signers      []ed25519.PrivateKey
	Instructions []*chain.Instruction
	Setup        func(context.Context, *testing.T, *Env)

	ExpectedErr error

	Assertion func(context.Context, *testing.T, *Env, *chain.Result)
}

// Run executes [test] against a fresh copy of [newEnv].
func (test *InstructionTest) Run(ctx context.Context, t *testing.T, newEnv func(*testing.T) *Env) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		env := newEnv(t)
		if test.Setup != nil {
			test.Setup(ctx, t, env)
		}
		env.Clock.SetSlot(test.Slot)
		result, err := env.Send(ctx, t, test.Signers, test.Instructions...)
		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedErr == nil {
			require.True(result.Success)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, env, result)
		}
	})
}
