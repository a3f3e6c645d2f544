// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/chain/chaintest"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/storage"
)

const funds uint64 = 5 * storage.LamportsPerSOL

func newEnv(t *testing.T) *chaintest.Env {
	return chaintest.NewEnv(t, system.New(), probe{})
}

func probeInstruction(op byte, metas ...chain.AccountMeta) *chain.Instruction {
	return &chain.Instruction{
		ProgramID: probeID,
		Accounts:  metas,
		Data:      []byte{op},
	}
}

func newAddress(t *testing.T) codec.Address {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv.Address()
}

func TestInvokeContext(t *testing.T) {
	ctx := context.Background()
	payer, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	vault, _, err := codec.FindProgramAddress(vaultSeeds, probeID)
	require.NoError(t, err)

	target, other := newAddress(t), newAddress(t)
	newEnv := func(t *testing.T) *chaintest.Env {
		env := newEnv(t)
		env.Fund(t, payer.Address(), funds)
		env.Fund(t, other, funds)
		env.SetAccount(t, target, &storage.Account{
			Owner:    probeID,
			Lamports: storage.MinimumBalance(4),
			Data:     []byte{0, 0, 0, 0},
		})
		return env
	}

	tests := []chaintest.InstructionTest{
		{
			Name: "write owned account",
			Instructions: []*chain.Instruction{{
				ProgramID: probeID,
				Accounts:  []chain.AccountMeta{chain.Writable(target, false)},
				Data:      []byte{opWrite, 1, 2, 3, 4},
			}},
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, result *chain.Result) {
				require := require.New(t)
				require.Equal([]byte{1, 2, 3, 4}, env.Account(t, target).Data)
				require.Equal([]string{
					fmt.Sprintf("Program %s invoke [1]", probeID),
					fmt.Sprintf("Program %s success", probeID),
				}, result.Logs)
			},
		},
		{
			Name: "write readonly account",
			Instructions: []*chain.Instruction{{
				ProgramID: probeID,
				Accounts:  []chain.AccountMeta{chain.Readonly(target, false)},
				Data:      []byte{opWrite, 1, 2, 3, 4},
			}},
			ExpectedErr: chain.ErrReadonlyAccount,
		},
		{
			Name: "write foreign account",
			Instructions: []*chain.Instruction{{
				ProgramID: probeID,
				Accounts:  []chain.AccountMeta{chain.Writable(other, false)},
				Data:      []byte{opWrite, 9},
			}},
			ExpectedErr: chain.ErrExternalAccountDataModified,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.Empty(t, env.Account(t, other).Data)
			},
		},
		{
			Name:         "nested calls stop at max depth",
			Instructions: []*chain.Instruction{probeInstruction(opRecurse, chain.Readonly(probeID, false))},
			ExpectedErr:  chain.ErrCallDepth,
			Assertion: func(_ context.Context, t *testing.T, _ *chaintest.Env, result *chain.Result) {
				require := require.New(t)
				require.Contains(result.Logs, fmt.Sprintf("Program log: depth %d", chain.MaxCallDepth))
				require.NotContains(result.Logs, fmt.Sprintf("Program log: depth %d", chain.MaxCallDepth+1))
			},
		},
		{
			Name: "cannot lend a missing signature",
			Instructions: []*chain.Instruction{probeInstruction(opEscalate,
				chain.Writable(other, false),
				chain.Writable(payer.Address(), false),
				chain.Readonly(system.ID, false),
			)},
			ExpectedErr: chain.ErrPrivilegeEscalation,
		},
		{
			Name: "program address signs for its program",
			Setup: func(_ context.Context, t *testing.T, env *chaintest.Env) {
				env.Fund(t, vault, funds)
			},
			Instructions: []*chain.Instruction{probeInstruction(opPDATransfer,
				chain.Writable(vault, false),
				chain.Writable(payer.Address(), false),
				chain.Readonly(system.ID, false),
			)},
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require := require.New(t)
				require.Equal(funds-1_000, env.Account(t, vault).Lamports)
				require.Equal(funds+1_000, env.Account(t, payer.Address()).Lamports)
			},
		},
		{
			Name:         "unknown program",
			Instructions: []*chain.Instruction{{ProgramID: codec.Address{0xaa}}},
			ExpectedErr:  chain.ErrUnknownProgram,
		},
		{
			Name: "failure discards earlier instructions",
			Instructions: []*chain.Instruction{
				{
					ProgramID: probeID,
					Accounts:  []chain.AccountMeta{chain.Writable(target, false)},
					Data:      []byte{opWrite, 5, 5, 5, 5},
				},
				probeInstruction(opFail),
			},
			ExpectedErr: errProbe,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, result *chain.Result) {
				require := require.New(t)
				require.Equal([]byte{0, 0, 0, 0}, env.Account(t, target).Data)
				require.False(result.Success)
				require.NotNil(result.Code)
				require.Equal(uint32(7), *result.Code)
				require.Equal("Error processing Instruction 1: custom program error: 0x7", result.Error)
			},
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t, newEnv)
	}
}

func TestDuplicateTransaction(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newEnv(t)
	alice := env.NewKey(t, funds)
	bob := env.NewKey(t, 0)

	tx := chain.NewTx(42, system.Transfer(alice.Address(), bob.Address(), 10))
	require.NoError(tx.Sign(alice))
	result, err := env.Runtime.Execute(ctx, tx)
	require.NoError(err)
	require.True(result.Success)

	_, err = env.Runtime.Execute(ctx, tx)
	require.ErrorIs(err, chain.ErrDuplicateTx)
	require.Equal(uint64(10), env.Account(t, bob.Address()).Lamports)
}

func TestMissingSignatureRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newEnv(t)
	alice := env.NewKey(t, funds)
	mallory := env.NewKey(t, 0)

	result, err := env.Send(ctx, t, []ed25519.PrivateKey{mallory},
		system.Transfer(alice.Address(), mallory.Address(), funds),
	)
	require.ErrorIs(err, chain.ErrMissingSignature)
	require.Nil(result)
	require.Equal(funds, env.Account(t, alice.Address()).Lamports)
}

func TestSubscribe(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newEnv(t)
	alice := env.NewKey(t, funds)

	var (
		succeeded atomic.Int32
		failed    atomic.Int32
	)
	env.Runtime.Subscribe(func(r *chain.Result) {
		if r.Success {
			succeeded.Add(1)
		} else {
			failed.Add(1)
		}
	})

	_, err := env.Send(ctx, t, []ed25519.PrivateKey{alice}, system.Transfer(alice.Address(), probeID, 1))
	require.NoError(err)
	_, err = env.Send(ctx, t, nil, probeInstruction(opFail))
	require.ErrorIs(err, errProbe)
	// rejected transactions never reach subscribers
	_, err = env.Send(ctx, t, nil)
	require.ErrorIs(err, chain.ErrNoInstructions)

	require.Equal(int32(1), succeeded.Load())
	require.Equal(int32(1), failed.Load())
}

func TestExecuteBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newEnv(t)
	alice := env.NewKey(t, funds)

	const n = 32
	txs := make([]*chain.Transaction, n)
	recipients := make([]codec.Address, n)
	for i := range txs {
		recipients[i] = env.NewKey(t, 0).Address()
		txs[i] = chain.NewTx(uint64(i), system.Transfer(alice.Address(), recipients[i], 100))
		require.NoError(txs[i].Sign(alice))
	}
	results, errs := env.Runtime.ExecuteBatch(ctx, txs)
	for i := range txs {
		require.NoError(errs[i])
		require.True(results[i].Success)
		require.Equal(uint64(100), env.Account(t, recipients[i]).Lamports)
	}
	require.Equal(funds-n*100, env.Account(t, alice.Address()).Lamports)
}
