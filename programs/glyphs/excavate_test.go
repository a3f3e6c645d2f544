// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/chain/chaintest"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
)

const funds uint64 = 10 * storage.LamportsPerSOL

func newEnv(t *testing.T) *chaintest.Env {
	env := chaintest.NewEnv(t, system.New(), core.New(), New())
	require.NoError(t, env.Runtime.Mutate(context.Background(), GenesisKeys(), func(ctx context.Context, mu state.Mutable) error {
		return SeedCollection(ctx, mu, codec.EmptyAddress)
	}))
	return env
}

func newKey(t *testing.T) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

func slotTracker(t *testing.T, env *chaintest.Env) *SlotTrackerRecord {
	acct := env.Account(t, SlotTrackerAddress)
	require.Equal(t, ID, acct.Owner)
	record, err := LoadSlotTracker(acct.Data)
	require.NoError(t, err)
	return record
}

func requireGlyph(t *testing.T, env *chaintest.Env, asset, owner codec.Address, slot uint64, rarity Rarity) {
	require := require.New(t)

	acct := env.Account(t, asset)
	require.Equal(core.ID, acct.Owner)
	a, err := core.DecodeAsset(acct.Data)
	require.NoError(err)
	require.Equal(owner, codec.Address(a.Owner))
	require.Equal(core.UpdateAuthorityCollection, a.UpdateAuthorityKind)
	require.Equal(CollectionAddress, codec.Address(a.UpdateAuthority))
	require.Equal(rarity.Name(), a.Name)
	require.Equal(rarity.URI(), a.URI)
	require.Equal(core.PluginAuthorityNone, a.AttributesAuthority)
	epoch := env.Runtime.EpochSchedule().Epoch(slot)
	require.Equal([]core.Attribute{
		{Key: "Rarity", Value: rarity.String()},
		{Key: "Epoch", Value: strconv.FormatUint(epoch, 10)},
		{Key: "Slot", Value: strconv.FormatUint(slot, 10)},
	}, a.Attributes)
}

// excavateWith replaces the account at [index] of a valid excavation.
func excavateWith(asset, payer codec.Address, index int, meta chain.AccountMeta) *chain.Instruction {
	ins := NewExcavateInstruction(asset, payer)
	ins.Accounts[index] = meta
	return ins
}

func TestExcavate(t *testing.T) {
	ctx := context.Background()
	var (
		payer = newKey(t)
		asset = newKey(t)
		other = newKey(t)
	)
	newEnv := func(t *testing.T) *chaintest.Env {
		env := newEnv(t)
		env.Fund(t, payer.Address(), funds)
		return env
	}
	signers := []ed25519.PrivateKey{payer, asset}
	excavate := []*chain.Instruction{NewExcavateInstruction(asset.Address(), payer.Address())}

	// excavatedWith runs a first excavation at [slot] minting [key].
	excavatedWith := func(slot uint64, key ed25519.PrivateKey) func(context.Context, *testing.T, *chaintest.Env) {
		return func(ctx context.Context, t *testing.T, env *chaintest.Env) {
			env.Clock.SetSlot(slot)
			_, err := env.Send(ctx, t, []ed25519.PrivateKey{payer, key},
				NewExcavateInstruction(key.Address(), payer.Address()))
			require.NoError(t, err)
		}
	}
	excavated := func(slot uint64) func(context.Context, *testing.T, *chaintest.Env) {
		return excavatedWith(slot, other)
	}

	tests := []chaintest.InstructionTest{
		{
			Name:         "neon slot",
			Slot:         1 << 26,
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				requireGlyph(t, env, asset.Address(), payer.Address(), 1<<26, Neon)
			},
		},
		{
			Name:         "silver slot",
			Slot:         1 << 20,
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				requireGlyph(t, env, asset.Address(), payer.Address(), 1<<20, Silver)
			},
		},
		{
			Name:         "first excavation creates the tracker",
			Slot:         100,
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, result *chain.Result) {
				require := require.New(t)

				record := slotTracker(t, env)
				require.Equal(KeySlotTracker, record.Key)
				require.Equal(uint64(100), record.LastSlot)

				tracker := env.Account(t, SlotTrackerAddress)
				require.Len(tracker.Data, SlotTrackerLen)
				require.True(tracker.IsRentExempt())
				require.Equal(MintFee, env.Account(t, GlobalSignerAddress).Lamports)

				requireGlyph(t, env, asset.Address(), payer.Address(), 100, Stone)
				assetRent := env.Account(t, asset.Address()).Lamports
				require.Equal(funds-MintFee-tracker.Lamports-assetRent, env.Account(t, payer.Address()).Lamports)

				c, err := core.DecodeCollection(env.Account(t, CollectionAddress).Data)
				require.NoError(err)
				require.Equal(uint32(1), c.NumMinted)
				require.Equal("https://www.glyphs.quest/collection.json", c.URI)
				require.Contains(result.Logs, "Program log: Instruction: Excavate")
				require.Contains(result.Logs, "Program log: Excavated Stone Glyph at slot 100")
			},
		},
		{
			Name:         "second excavation in a slot",
			Slot:         100,
			Setup:        excavated(100),
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrAlreadyExcavated,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, result *chain.Result) {
				require := require.New(t)

				require.Equal(uint64(100), slotTracker(t, env).LastSlot)
				require.Equal(MintFee, env.Account(t, GlobalSignerAddress).Lamports)
				require.True(env.Account(t, asset.Address()).Empty())
				require.Equal(uint32(ErrAlreadyExcavated), *result.Code)
				require.Equal("Error processing Instruction 0: custom program error: 0x7", result.Error)
			},
		},
		{
			Name:         "earlier slot",
			Slot:         99,
			Setup:        excavated(100),
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrAlreadyExcavated,
		},
		{
			Name:         "next slot",
			Slot:         101,
			Setup:        excavated(100),
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.Equal(t, uint64(101), slotTracker(t, env).LastSlot)
				require.Equal(t, 2*MintFee, env.Account(t, GlobalSignerAddress).Lamports)
				requireGlyph(t, env, asset.Address(), payer.Address(), 101, Stone)
			},
		},
		{
			Name:         "epoch boundary",
			Slot:         956_256,
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				requireGlyph(t, env, asset.Address(), payer.Address(), 956_256, Bronze)
			},
		},
		{
			Name:         "tracker lamports sent before creation",
			Slot:         3 << 10,
			Setup:        func(_ context.Context, t *testing.T, env *chaintest.Env) { env.Fund(t, SlotTrackerAddress, 1) },
			Signers:      signers,
			Instructions: excavate,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.True(t, env.Account(t, SlotTrackerAddress).IsRentExempt())
				require.Equal(t, uint64(3<<10), slotTracker(t, env).LastSlot)
				requireGlyph(t, env, asset.Address(), payer.Address(), 3<<10, Jade)
			},
		},
		{
			Name:         "slot zero cannot create the tracker",
			Slot:         0,
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrNumericalOverflow,
		},
		{
			Name:         "wrong slot tracker",
			Slot:         100,
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), SlotTrackerIndex, chain.Writable(other.Address(), false))},
			ExpectedErr:  ErrInvalidSlotTracker,
		},
		{
			Name:    "slot tracker checked before glyph signer",
			Slot:    100,
			Signers: signers,
			Instructions: func() []*chain.Instruction {
				ins := excavateWith(asset.Address(), payer.Address(), SlotTrackerIndex, chain.Writable(other.Address(), false))
				ins.Accounts[GlyphSignerIndex] = chain.Writable(other.Address(), false)
				return []*chain.Instruction{ins}
			}(),
			ExpectedErr: ErrInvalidSlotTracker,
		},
		{
			Name:         "wrong glyph signer",
			Slot:         100,
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), GlyphSignerIndex, chain.Writable(other.Address(), false))},
			ExpectedErr:  ErrInvalidGlyphSigner,
		},
		{
			Name:         "wrong system program",
			Slot:         100,
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), SystemProgramIndex, chain.Readonly(core.ID, false))},
			ExpectedErr:  ErrInvalidSystemProgram,
		},
		{
			Name:         "wrong core program",
			Slot:         100,
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), CoreProgramIndex, chain.Readonly(system.ID, false))},
			ExpectedErr:  ErrInvalidMplCoreProgram,
		},
		{
			Name:         "wrong collection without tracker",
			Slot:         100,
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), CollectionIndex, chain.Writable(other.Address(), false))},
			ExpectedErr:  ErrInvalidCollection,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.True(t, env.Account(t, SlotTrackerAddress).Empty())
			},
		},
		{
			Name:         "wrong collection with tracker",
			Slot:         101,
			Setup:        excavated(100),
			Signers:      signers,
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), CollectionIndex, chain.Writable(other.Address(), false))},
			ExpectedErr:  ErrInvalidCollection,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.Equal(t, uint64(100), slotTracker(t, env).LastSlot)
			},
		},
		{
			Name:         "payer must sign",
			Slot:         100,
			Signers:      []ed25519.PrivateKey{asset},
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), PayerIndex, chain.Writable(payer.Address(), false))},
			ExpectedErr:  ErrMissingSignature,
		},
		{
			Name:         "asset must sign",
			Slot:         100,
			Signers:      []ed25519.PrivateKey{payer},
			Instructions: []*chain.Instruction{excavateWith(asset.Address(), payer.Address(), AssetIndex, chain.Writable(asset.Address(), false))},
			ExpectedErr:  ErrMissingSignature,
		},
		{
			Name:         "asset already in use",
			Slot:         100,
			Setup:        func(_ context.Context, t *testing.T, env *chaintest.Env) { env.Fund(t, asset.Address(), 1) },
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrInvalidAsset,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.True(t, env.Account(t, SlotTrackerAddress).Empty())
			},
		},
		{
			Name:         "replay with the same asset",
			Slot:         100,
			Setup:        excavatedWith(100, asset),
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrAlreadyExcavated,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, result *chain.Result) {
				require := require.New(t)

				require.Equal(uint64(100), slotTracker(t, env).LastSlot)
				require.Equal(MintFee, env.Account(t, GlobalSignerAddress).Lamports)
				require.Equal("Error processing Instruction 0: custom program error: 0x7", result.Error)
			},
		},
		{
			Name:         "replay with the same asset in an earlier slot",
			Slot:         99,
			Setup:        excavatedWith(100, asset),
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrAlreadyExcavated,
		},
		{
			Name: "uninitialized tracker",
			Slot: 100,
			Setup: func(_ context.Context, t *testing.T, env *chaintest.Env) {
				env.SetAccount(t, SlotTrackerAddress, &storage.Account{
					Owner:    ID,
					Lamports: storage.MinimumBalance(SlotTrackerLen),
					Data:     make([]byte, SlotTrackerLen),
				})
			},
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrInvalidSlotTrackerKey,
		},
		{
			Name: "malformed tracker",
			Slot: 100,
			Setup: func(_ context.Context, t *testing.T, env *chaintest.Env) {
				env.SetAccount(t, SlotTrackerAddress, &storage.Account{
					Owner:    ID,
					Lamports: storage.MinimumBalance(SlotTrackerLen),
					Data:     []byte{1, 0, 0},
				})
			},
			Signers:      signers,
			Instructions: excavate,
			ExpectedErr:  ErrDeserialization,
		},
		{
			Name:         "payer cannot cover the fee",
			Slot:         100,
			Setup:        func(_ context.Context, t *testing.T, env *chaintest.Env) { env.Fund(t, other.Address(), MintFee) },
			Signers:      []ed25519.PrivateKey{other, asset},
			Instructions: []*chain.Instruction{NewExcavateInstruction(asset.Address(), other.Address())},
			ExpectedErr:  system.ErrResultWithNegativeLamports,
			Assertion: func(_ context.Context, t *testing.T, env *chaintest.Env, _ *chain.Result) {
				require.True(t, env.Account(t, SlotTrackerAddress).Empty())
				require.Equal(t, MintFee, env.Account(t, other.Address()).Lamports)
			},
		},
		{
			Name:    "unknown instruction",
			Slot:    100,
			Signers: signers,
			Instructions: func() []*chain.Instruction {
				ins := NewExcavateInstruction(asset.Address(), payer.Address())
				ins.Data = []byte{1}
				return []*chain.Instruction{ins}
			}(),
			ExpectedErr: chain.ErrInvalidInstructionData,
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t, newEnv)
	}
}

// Excavations racing for one slot are serialized on the slot tracker and
// exactly one of them wins.
func TestConcurrentExcavations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newEnv(t)
	env.Clock.SetSlot(1 << 22)

	const n = 16
	txs := make([]*chain.Transaction, n)
	for i := range txs {
		payer := env.NewKey(t, funds)
		asset := newKey(t)
		txs[i] = chain.NewTx(uint64(i), NewExcavateInstruction(asset.Address(), payer.Address()))
		require.NoError(txs[i].Sign(payer, asset))
	}
	results, errs := env.Runtime.ExecuteBatch(ctx, txs)

	var won int
	for i := range txs {
		if errs[i] == nil {
			won++
			require.True(results[i].Success)
			continue
		}
		require.ErrorIs(errs[i], ErrAlreadyExcavated)
	}
	require.Equal(1, won)
	require.Equal(uint64(1<<22), slotTracker(t, env).LastSlot)
	require.Equal(MintFee, env.Account(t, GlobalSignerAddress).Lamports)

	c, err := core.DecodeCollection(env.Account(t, CollectionAddress).Data)
	require.NoError(err)
	require.Equal(uint32(1), c.NumMinted)
}
