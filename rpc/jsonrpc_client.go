// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/storage"
)

const waitSleep = 200 * time.Millisecond

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Clock(ctx context.Context) (*ClockReply, error) {
	resp := new(ClockReply)
	err := cli.send(ctx,
		"clock",
		nil,
		resp,
	)
	return resp, err
}

// SubmitTx returns the execution result of [tx]. A transaction that aborted
// inside a program returns a result with [chain.Result.Success] unset and no
// error.
func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	b, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	resp := new(SubmitTxReply)
	err = cli.send(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: b},
		resp,
	)
	return resp.Result, err
}

// GenerateTransaction signs a transaction holding [instructions] with a
// time-based nonce and submits it.
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	signers []ed25519.PrivateKey,
	instructions ...*chain.Instruction,
) (*chain.Result, error) {
	tx := chain.NewTx(uint64(time.Now().UnixNano()), instructions...)
	if err := tx.Sign(signers...); err != nil {
		return nil, err
	}
	return cli.SubmitTx(ctx, tx)
}

// Tx returns the slot [txID] was committed in. Only successful transactions
// are recorded.
func (cli *JSONRPCClient) Tx(ctx context.Context, txID ids.ID) (uint64, error) {
	resp := new(TxReply)
	err := cli.send(
		ctx,
		"tx",
		&TxArgs{TxID: txID},
		resp,
	)
	return resp.Slot, err
}

func (cli *JSONRPCClient) Account(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	resp := new(AccountReply)
	err := cli.send(
		ctx,
		"account",
		&AddressArgs{Address: addr},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &storage.Account{
		Owner:      resp.Owner,
		Lamports:   resp.Lamports,
		Executable: resp.Executable,
		Data:       resp.Data,
	}, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	acct, err := cli.Account(ctx, addr)
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

func (cli *JSONRPCClient) SlotTracker(ctx context.Context) (*SlotTrackerReply, error) {
	resp := new(SlotTrackerReply)
	err := cli.send(
		ctx,
		"slotTracker",
		nil,
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Asset(ctx context.Context, addr codec.Address) (*AssetReply, error) {
	resp := new(AssetReply)
	err := cli.send(
		ctx,
		"asset",
		&AddressArgs{Address: addr},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Collection(ctx context.Context) (*CollectionReply, error) {
	resp := new(CollectionReply)
	err := cli.send(
		ctx,
		"collection",
		nil,
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Airdrop(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(AirdropReply)
	err := cli.send(
		ctx,
		"airdrop",
		&AddressArgs{Address: addr},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Rarity(ctx context.Context, slot uint64) (*RarityReply, error) {
	resp := new(RarityReply)
	err := cli.send(
		ctx,
		"rarity",
		&RarityArgs{Slot: slot},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) NextRare(ctx context.Context, after uint64, tier string) (*NextRareReply, error) {
	resp := new(NextRareReply)
	err := cli.send(
		ctx,
		"nextRare",
		&NextRareArgs{After: after, Tier: tier},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Results(ctx context.Context) ([]*chain.Result, error) {
	resp := new(ResultsReply)
	err := cli.send(
		ctx,
		"results",
		nil,
		resp,
	)
	return resp.Results, err
}

// WaitForSlot blocks until the node clock reaches [slot].
func (cli *JSONRPCClient) WaitForSlot(ctx context.Context, slot uint64) (*ClockReply, error) {
	for {
		clock, err := cli.Clock(ctx)
		if err != nil {
			return nil, err
		}
		if clock.Slot >= slot {
			return clock, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitSleep):
		}
	}
}

// WaitForBalance blocks until [addr] holds at least [target] lamports.
func (cli *JSONRPCClient) WaitForBalance(ctx context.Context, addr codec.Address, target uint64) error {
	for {
		bal, err := cli.Balance(ctx, addr)
		if err != nil {
			return err
		}
		if bal >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitSleep):
		}
	}
}
