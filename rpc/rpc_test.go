// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bgl-labs/glyphs/chain/chaintest"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/programs/system"
	"github.com/bgl-labs/glyphs/pubsub"
	"github.com/bgl-labs/glyphs/server"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
)

const funds uint64 = 10 * storage.LamportsPerSOL

// newController backs a mock controller with a real runtime.
func newController(t *testing.T) (*MockController, *chaintest.Env) {
	env := chaintest.NewEnv(t, system.New(), core.New(), glyphs.New())
	require.NoError(t, env.Runtime.Mutate(context.Background(), glyphs.GenesisKeys(), func(ctx context.Context, mu state.Mutable) error {
		return glyphs.SeedCollection(ctx, mu, codec.EmptyAddress)
	}))

	c := NewMockController(gomock.NewController(t))
	c.EXPECT().Logger().Return(logging.NoLog{}).AnyTimes()
	c.EXPECT().Tracer().Return(trace.Noop).AnyTimes()
	c.EXPECT().Clock().DoAndReturn(env.Runtime.Clock).AnyTimes()
	c.EXPECT().EpochSchedule().DoAndReturn(env.Runtime.EpochSchedule).AnyTimes()
	c.EXPECT().ReadState(gomock.Any(), gomock.Any()).DoAndReturn(env.Runtime.ReadState).AnyTimes()
	c.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(env.Runtime.Execute).AnyTimes()
	return c, env
}

func newServer(t *testing.T, c Controller) (string, *WebSocketServer) {
	handler, err := server.NewJSONRPCHandler(Name, NewJSONRPCServer(c))
	require.NoError(t, err)
	w, ws := NewWebSocketServer(c, pubsub.NewDefaultServerConfig())

	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	mux.Handle(WebSocketEndpoint, ws)
	web := httptest.NewServer(mux)
	t.Cleanup(web.Close)
	return web.URL, w
}

func newKey(t *testing.T) ed25519.PrivateKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

func TestJSONRPCExcavate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c, env := newController(t)
	uri, _ := newServer(t, c)
	cli := NewJSONRPCClient(uri)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	tracker, err := cli.SlotTracker(ctx)
	require.NoError(err)
	require.False(tracker.Initialized)
	require.Equal(glyphs.SlotTrackerAddress, tracker.Address)

	payer, asset := newKey(t), newKey(t)
	env.Fund(t, payer.Address(), funds)
	slot := uint64(1 << 20)
	env.Clock.SetSlot(slot)

	clock, err := cli.Clock(ctx)
	require.NoError(err)
	require.Equal(slot, clock.Slot)
	require.Equal(env.Runtime.EpochSchedule().Epoch(slot), clock.Epoch)

	result, err := cli.GenerateTransaction(ctx,
		[]ed25519.PrivateKey{payer, asset},
		glyphs.NewExcavateInstruction(asset.Address(), payer.Address()),
	)
	require.NoError(err)
	require.True(result.Success, result.Error)
	require.Equal(slot, result.Slot)

	committed, err := cli.Tx(ctx, result.TxID)
	require.NoError(err)
	require.Equal(slot, committed)

	tracker, err = cli.SlotTracker(ctx)
	require.NoError(err)
	require.True(tracker.Initialized)
	require.Equal(slot, tracker.LastSlot)

	glyph, err := cli.Asset(ctx, asset.Address())
	require.NoError(err)
	require.Equal(payer.Address(), glyph.Owner)
	require.Equal(glyphs.CollectionAddress, glyph.UpdateAuthority)
	require.Equal(glyphs.Silver.Name(), glyph.Name)
	require.Equal(core.Attribute{Key: "Rarity", Value: "Silver"}, glyph.Attributes[0])

	collection, err := cli.Collection(ctx)
	require.NoError(err)
	require.Equal(uint32(1), collection.NumMinted)
	require.Equal(uint32(1), collection.CurrentSize)
	require.Equal([]codec.Address{glyphs.GlobalSignerAddress}, collection.UpdateDelegates)

	acct, err := cli.Account(ctx, glyphs.GlobalSignerAddress)
	require.NoError(err)
	require.Equal(glyphs.MintFee, acct.Lamports)

	// Program failures come back as results, not RPC errors.
	again := newKey(t)
	result, err = cli.GenerateTransaction(ctx,
		[]ed25519.PrivateKey{payer, again},
		glyphs.NewExcavateInstruction(again.Address(), payer.Address()),
	)
	require.NoError(err)
	require.False(result.Success)
	require.NotNil(result.Code)
	require.Equal(uint32(glyphs.ErrAlreadyExcavated), *result.Code)

	_, err = cli.Tx(ctx, result.TxID)
	require.ErrorContains(err, ErrTxNotFound.Error())
}

func TestJSONRPCRejectedTx(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c, env := newController(t)
	uri, _ := newServer(t, c)
	cli := NewJSONRPCClient(uri)

	payer, asset := newKey(t), newKey(t)
	env.Fund(t, payer.Address(), funds)

	// The asset signature is missing.
	_, err := cli.GenerateTransaction(ctx,
		[]ed25519.PrivateKey{payer},
		glyphs.NewExcavateInstruction(asset.Address(), payer.Address()),
	)
	require.Error(err)

	_, err = cli.Asset(ctx, asset.Address())
	require.ErrorContains(err, ErrAccountNotOwned.Error())
}

func TestJSONRPCQueries(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	c, _ := newController(t)
	uri, _ := newServer(t, c)
	cli := NewJSONRPCClient(uri)

	addr := newKey(t).Address()
	c.EXPECT().Airdrop(gomock.Any(), addr).Return(uint64(5_000), nil)
	bal, err := cli.Airdrop(ctx, addr)
	require.NoError(err)
	require.Equal(uint64(5_000), bal)

	c.EXPECT().RecentResults().Return(nil)
	results, err := cli.Results(ctx)
	require.NoError(err)
	require.Empty(results)

	rarity, err := cli.Rarity(ctx, 0)
	require.NoError(err)
	require.Equal("Neon", rarity.Rarity)
	require.True(rarity.FirstSlotInEpoch)

	rarity, err = cli.Rarity(ctx, 3<<10)
	require.NoError(err)
	require.Equal("Jade", rarity.Rarity)
	require.Equal(glyphs.Jade.URI(), rarity.URI)

	next, err := cli.NextRare(ctx, 100, "gold")
	require.NoError(err)
	require.True(next.Found)
	require.Equal(uint64(1<<22), next.Slot)
	require.Equal("Gold", next.Rarity)

	_, err = cli.NextRare(ctx, 100, "diamond")
	require.Error(err)

	acct, err := cli.Account(ctx, addr)
	require.NoError(err)
	require.Equal(system.ID, acct.Owner)
	require.Zero(acct.Lamports)
	require.Empty(acct.Data)
}
