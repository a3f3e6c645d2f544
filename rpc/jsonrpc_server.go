// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/storage"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type ClockReply struct {
	Slot             uint64 `json:"slot"`
	Epoch            uint64 `json:"epoch"`
	UnixTimestamp    int64  `json:"unixTimestamp"`
	FirstSlotInEpoch uint64 `json:"firstSlotInEpoch"`
	SlotsInEpoch     uint64 `json:"slotsInEpoch"`
}

func (j *JSONRPCServer) Clock(_ *http.Request, _ *struct{}, reply *ClockReply) error {
	clock := j.c.Clock()
	schedule := j.c.EpochSchedule()
	reply.Slot = clock.Slot
	reply.Epoch = clock.Epoch
	reply.UnixTimestamp = clock.UnixTimestamp
	reply.FirstSlotInEpoch = schedule.FirstSlotInEpoch(clock.Epoch)
	reply.SlotsInEpoch = schedule.SlotsInEpoch(clock.Epoch)
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID   ids.ID        `json:"txId"`
	Result *chain.Result `json:"result"`
}

// SubmitTx executes a signed transaction. Transactions that abort inside a
// program are not RPC errors: their outcome is in the returned result.
func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := chain.UnmarshalTx(args.Tx)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	txID, err := tx.ID()
	if err != nil {
		return err
	}
	result, err := j.c.Submit(ctx, tx)
	if result == nil {
		j.c.Logger().Debug("rejected tx",
			zap.Stringer("txID", txID),
			zap.Error(err),
		)
		return err
	}
	reply.TxID = txID
	reply.Result = result
	return nil
}

type TxArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxReply struct {
	Slot uint64 `json:"slot"`
}

func (j *JSONRPCServer) Tx(req *http.Request, args *TxArgs, reply *TxReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Tx")
	defer span.End()

	found, slot, err := storage.GetTransactionFromState(ctx, j.c.ReadState, args.TxID)
	if err != nil {
		return err
	}
	if !found {
		return ErrTxNotFound
	}
	reply.Slot = slot
	return nil
}

type AddressArgs struct {
	Address codec.Address `json:"address"`
}

type AccountReply struct {
	Owner      codec.Address `json:"owner"`
	Lamports   uint64        `json:"lamports"`
	Executable bool          `json:"executable"`
	Data       codec.Bytes   `json:"data"`
}

func (j *JSONRPCServer) Account(req *http.Request, args *AddressArgs, reply *AccountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Account")
	defer span.End()

	acct, err := storage.GetAccountFromState(ctx, j.c.ReadState, args.Address)
	if err != nil {
		return err
	}
	reply.Owner = acct.Owner
	reply.Lamports = acct.Lamports
	reply.Executable = acct.Executable
	reply.Data = acct.Data
	return nil
}

type SlotTrackerReply struct {
	Address     codec.Address `json:"address"`
	Initialized bool          `json:"initialized"`
	LastSlot    uint64        `json:"lastSlot"`
	Lamports    uint64        `json:"lamports"`
}

// SlotTracker reports the last excavated slot. An uninitialized tracker
// means nothing has been excavated yet.
func (j *JSONRPCServer) SlotTracker(req *http.Request, _ *struct{}, reply *SlotTrackerReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SlotTracker")
	defer span.End()

	acct, err := storage.GetAccountFromState(ctx, j.c.ReadState, glyphs.SlotTrackerAddress)
	if err != nil {
		return err
	}
	reply.Address = glyphs.SlotTrackerAddress
	reply.Lamports = acct.Lamports
	if acct.Owner != glyphs.ID {
		return nil
	}
	record, err := glyphs.LoadSlotTracker(acct.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSlotTracker, err)
	}
	reply.Initialized = record.Key == glyphs.KeySlotTracker
	reply.LastSlot = record.LastSlot
	return nil
}

type AssetReply struct {
	Owner           codec.Address    `json:"owner"`
	UpdateAuthority codec.Address    `json:"updateAuthority"`
	Name            string           `json:"name"`
	URI             string           `json:"uri"`
	Attributes      []core.Attribute `json:"attributes"`
}

func (j *JSONRPCServer) Asset(req *http.Request, args *AddressArgs, reply *AssetReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Asset")
	defer span.End()

	acct, err := storage.GetAccountFromState(ctx, j.c.ReadState, args.Address)
	if err != nil {
		return err
	}
	if acct.Owner != core.ID {
		return ErrAccountNotOwned
	}
	asset, err := core.DecodeAsset(acct.Data)
	if err != nil {
		return err
	}
	reply.Owner = codec.Address(asset.Owner)
	reply.UpdateAuthority = codec.Address(asset.UpdateAuthority)
	reply.Name = asset.Name
	reply.URI = asset.URI
	reply.Attributes = asset.Attributes
	return nil
}

type CollectionReply struct {
	Address         codec.Address   `json:"address"`
	UpdateAuthority codec.Address   `json:"updateAuthority"`
	Name            string          `json:"name"`
	URI             string          `json:"uri"`
	NumMinted       uint32          `json:"numMinted"`
	CurrentSize     uint32          `json:"currentSize"`
	UpdateDelegates []codec.Address `json:"updateDelegates"`
}

// Collection returns the glyphs collection record.
func (j *JSONRPCServer) Collection(req *http.Request, _ *struct{}, reply *CollectionReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Collection")
	defer span.End()

	acct, err := storage.GetAccountFromState(ctx, j.c.ReadState, glyphs.CollectionAddress)
	if err != nil {
		return err
	}
	if acct.Owner != core.ID {
		return ErrAccountNotOwned
	}
	collection, err := core.DecodeCollection(acct.Data)
	if err != nil {
		return err
	}
	reply.Address = glyphs.CollectionAddress
	reply.UpdateAuthority = codec.Address(collection.UpdateAuthority)
	reply.Name = collection.Name
	reply.URI = collection.URI
	reply.NumMinted = collection.NumMinted
	reply.CurrentSize = collection.CurrentSize
	reply.UpdateDelegates = make([]codec.Address, len(collection.UpdateDelegates))
	for i, d := range collection.UpdateDelegates {
		reply.UpdateDelegates[i] = codec.Address(d)
	}
	return nil
}

type AirdropReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) Airdrop(req *http.Request, args *AddressArgs, reply *AirdropReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Airdrop")
	defer span.End()

	balance, err := j.c.Airdrop(ctx, args.Address)
	if err != nil {
		return err
	}
	j.c.Logger().Info("airdrop",
		zap.Stringer("address", args.Address),
		zap.Uint64("balance", balance),
	)
	reply.Balance = balance
	return nil
}

type RarityArgs struct {
	Slot uint64 `json:"slot"`
}

type RarityReply struct {
	Rarity           string `json:"rarity"`
	Name             string `json:"name"`
	URI              string `json:"uri"`
	Epoch            uint64 `json:"epoch"`
	FirstSlotInEpoch bool   `json:"firstSlotInEpoch"`
}

// Rarity reports the tier an excavation at [args.Slot] would mint.
func (j *JSONRPCServer) Rarity(_ *http.Request, args *RarityArgs, reply *RarityReply) error {
	schedule := j.c.EpochSchedule()
	r := glyphs.RarityAt(schedule, args.Slot)
	reply.Rarity = r.String()
	reply.Name = r.Name()
	reply.URI = r.URI()
	reply.Epoch = schedule.Epoch(args.Slot)
	reply.FirstSlotInEpoch = schedule.IsFirstSlotInEpoch(args.Slot)
	return nil
}

type NextRareArgs struct {
	After uint64 `json:"after"`
	Tier  string `json:"tier"`
}

type NextRareReply struct {
	Found  bool   `json:"found"`
	Slot   uint64 `json:"slot"`
	Rarity string `json:"rarity"`
}

func (j *JSONRPCServer) NextRare(_ *http.Request, args *NextRareArgs, reply *NextRareReply) error {
	tier, err := glyphs.ParseRarity(args.Tier)
	if err != nil {
		return err
	}
	slot, r, ok := glyphs.NextRare(j.c.EpochSchedule(), args.After, tier)
	reply.Found = ok
	if ok {
		reply.Slot = slot
		reply.Rarity = r.String()
	}
	return nil
}

type ResultsReply struct {
	Results []*chain.Result `json:"results"`
}

// Results returns the most recently executed transactions, oldest first.
func (j *JSONRPCServer) Results(_ *http.Request, _ *struct{}, reply *ResultsReply) error {
	reply.Results = j.c.RecentResults()
	return nil
}
