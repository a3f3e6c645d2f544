// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/chain/chaintest"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/storage"
)

const funds uint64 = 10 * storage.LamportsPerSOL

var owner = codec.MustParseAddress("GLYPHQ8TkcUZYrdbMLkfWUzfdKPyCc9JLf987iNY5MAs")

func newKey(t *testing.T) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

func TestSystemInstructions(t *testing.T) {
	ctx := context.Background()
	alice, bob := newKey(t), newKey(t)
	newEnv := func(t *testing.T) *chaintest.Env {
		env := chaintest.NewEnv(t, New())
		env.Fund(t, alice.Address(), funds)
		return env
	}
	rent := storage.MinimumBalance(64)

	tests := []chaintest.InstructionTest{
		{
			Name:         "transfer",
			Signers:      []ed25519.PrivateKey{alice},
			Instructions: []*chain.Instruction{Transfer(alice.Address(), bob.Address(), 1_000)},
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.Equal(t, funds-1_000, env.Account(t, alice.Address()).Lamports)
				require.Equal(t, uint64(1_000), env.Account(t, bob.Address()).Lamports)
			},
		},
		{
			Name:         "transfer more than balance",
			Signers:      []ed25519.PrivateKey{alice},
			Instructions: []*chain.Instruction{Transfer(alice.Address(), bob.Address(), funds+1)},
			ExpectedErr:  ErrResultWithNegativeLamports,
		},
		{
			Name:    "transfer without signer",
			Signers: []ed25519.PrivateKey{bob},
			Instructions: []*chain.Instruction{{
				ProgramID: ID,
				Accounts: []chain.AccountMeta{
					chain.Writable(alice.Address(), false),
					chain.Writable(bob.Address(), true),
				},
				Data: Transfer(alice.Address(), bob.Address(), 1).Data,
			}},
			ExpectedErr: chain.ErrMissingSignature,
		},
		{
			Name:         "create account",
			Signers:      []ed25519.PrivateKey{alice, bob},
			Instructions: []*chain.Instruction{CreateAccount(alice.Address(), bob.Address(), rent, 64, owner)},
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				acct := env.Account(t, bob.Address())
				require.Equal(t, owner, acct.Owner)
				require.Equal(t, rent, acct.Lamports)
				require.Equal(t, make([]byte, 64), acct.Data)
			},
		},
		{
			Name:    "create account already funded",
			Signers: []ed25519.PrivateKey{alice, bob},
			Setup: func(_ context.Context, t *testing.T, env *chaintest.Env) {
				env.Fund(t, bob.Address(), 1)
			},
			Instructions: []*chain.Instruction{CreateAccount(alice.Address(), bob.Address(), rent, 64, owner)},
			ExpectedErr:  ErrAccountAlreadyInUse,
		},
		{
			Name:         "create account below rent",
			Signers:      []ed25519.PrivateKey{alice, bob},
			Instructions: []*chain.Instruction{CreateAccount(alice.Address(), bob.Address(), rent-1, 64, owner)},
			ExpectedErr:  ErrInsufficientFundsForRent,
		},
		{
			Name:         "create account too large",
			Signers:      []ed25519.PrivateKey{alice, bob},
			Instructions: []*chain.Instruction{CreateAccount(alice.Address(), bob.Address(), funds, storage.MaxAccountDataSize+1, owner)},
			ExpectedErr:  ErrInvalidAccountDataLength,
		},
		{
			Name:    "allocate then assign",
			Signers: []ed25519.PrivateKey{bob},
			Setup: func(_ context.Context, t *testing.T, env *chaintest.Env) {
				env.Fund(t, bob.Address(), rent)
			},
			Instructions: []*chain.Instruction{
				Allocate(bob.Address(), 64),
				Assign(bob.Address(), owner),
			},
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				acct := env.Account(t, bob.Address())
				require.Equal(t, owner, acct.Owner)
				require.Len(t, acct.Data, 64)
			},
		},
		{
			Name:    "transfer from account with data",
			Signers: []ed25519.PrivateKey{alice, bob},
			Instructions: []*chain.Instruction{
				CreateAccount(alice.Address(), bob.Address(), rent, 64, ID),
				Transfer(bob.Address(), alice.Address(), 1),
			},
			ExpectedErr: ErrFromMustNotCarryData,
		},
		{
			Name:    "unknown instruction",
			Signers: []ed25519.PrivateKey{alice},
			Instructions: []*chain.Instruction{{
				ProgramID: ID,
				Accounts:  []chain.AccountMeta{chain.Writable(alice.Address(), true)},
				Data:      []byte{3, 0, 0, 0},
			}},
			ExpectedErr: ErrUnknownInstruction,
		},
		{
			Name:    "truncated instruction",
			Signers: []ed25519.PrivateKey{alice},
			Instructions: []*chain.Instruction{{
				ProgramID: ID,
				Accounts:  []chain.AccountMeta{chain.Writable(alice.Address(), true)},
				Data:      []byte{2, 0, 0, 0, 1},
			}},
			ExpectedErr: chain.ErrInvalidInstructionData,
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t, newEnv)
	}
}

func TestFailedTransactionIsAtomic(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := chaintest.NewEnv(t, New())
	alice, bob := env.NewKey(t, funds), newKey(t)

	result, err := env.Send(ctx, t, []ed25519.PrivateKey{alice},
		Transfer(alice.Address(), bob.Address(), 1_000),
		Transfer(alice.Address(), bob.Address(), funds),
	)
	require.ErrorIs(err, ErrResultWithNegativeLamports)
	var ierr *chain.InstructionError
	require.ErrorAs(err, &ierr)
	require.Equal(1, ierr.Index)
	require.False(result.Success)
	require.NotNil(result.Code)
	require.Equal(uint32(ErrResultWithNegativeLamports), *result.Code)
	require.Contains(result.Error, "custom program error: 0x1")

	require.Equal(funds, env.Account(t, alice.Address()).Lamports)
	require.True(env.Account(t, bob.Address()).Empty())
}

func TestInstructionEncoding(t *testing.T) {
	require := require.New(t)

	// Layouts match the bincode encoding of the upstream system program.
	ins := Transfer(codec.EmptyAddress, owner, 0x0102)
	require.Equal([]byte{2, 0, 0, 0, 0x02, 0x01, 0, 0, 0, 0, 0, 0}, ins.Data)

	ins = Allocate(owner, 9)
	require.Equal([]byte{8, 0, 0, 0, 9, 0, 0, 0, 0, 0, 0, 0}, ins.Data)

	ins = CreateAccount(codec.EmptyAddress, owner, 1, 2, owner)
	require.Len(ins.Data, tagLen+createAccountArgsLen)
	require.Equal(owner[:], ins.Data[tagLen+16:])
}
