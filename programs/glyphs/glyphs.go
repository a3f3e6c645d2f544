// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package glyphs mints at most one collectible per slot. The rarity of each
// collectible is a pure function of the slot it was excavated in.
package glyphs

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/core"
	"github.com/bgl-labs/glyphs/programs/system"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Program = (*Program)(nil)

type Program struct {
	excavations *prometheus.CounterVec
}

func New() *Program {
	return &Program{
		excavations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glyphs",
			Name:      "excavations",
			Help:      "number of glyphs excavated per rarity",
		}, []string{"rarity"}),
	}
}

// Register adds the program metrics to [r].
func (p *Program) Register(r prometheus.Registerer) error {
	return r.Register(p.excavations)
}

func (*Program) ID() codec.Address {
	return ID
}

func (*Program) Name() string {
	return "glyphs"
}

func (p *Program) Execute(ctx context.Context, ic *chain.InvokeContext, data []byte) error {
	ins, err := ParseInstruction(data)
	if err != nil {
		return err
	}
	switch ins.(type) {
	case Excavate:
		ic.Msg("Instruction: Excavate")
		return p.excavate(ctx, ic)
	default:
		return chain.ErrInvalidInstructionData
	}
}

// validate checks the identity of every account and the required signers.
// The order of the checks decides which error a malformed call gets.
func validate(accounts []chain.AccountInfo) error {
	switch {
	case accounts[SlotTrackerIndex].Address != SlotTrackerAddress:
		return ErrInvalidSlotTracker
	case accounts[GlyphSignerIndex].Address != GlobalSignerAddress:
		return ErrInvalidGlyphSigner
	case accounts[SystemProgramIndex].Address != SystemProgramID:
		return ErrInvalidSystemProgram
	case accounts[CoreProgramIndex].Address != CoreProgramID:
		return ErrInvalidMplCoreProgram
	case accounts[CollectionIndex].Address != CollectionAddress:
		return ErrInvalidCollection
	case !accounts[PayerIndex].Signer:
		return ErrMissingSignature
	case !accounts[AssetIndex].Signer:
		return ErrMissingSignature
	}
	return nil
}

func (p *Program) excavate(ctx context.Context, ic *chain.InvokeContext) error {
	accounts := ic.Accounts()
	if len(accounts) < excavateAccounts {
		return chain.ErrNotEnoughAccountKeys
	}
	if err := validate(accounts); err != nil {
		return err
	}
	var (
		asset   = accounts[AssetIndex].Address
		payer   = accounts[PayerIndex].Address
		tracker = accounts[SlotTrackerIndex].Address
		clock   = ic.Clock()
	)

	record, err := resolveSlotTracker(ctx, ic, tracker, payer, clock.Slot)
	if err != nil {
		return err
	}
	if record.LastSlot >= clock.Slot {
		ic.Msg("Slot %d already excavated", record.LastSlot)
		return ErrAlreadyExcavated
	}

	// A replayed asset keypair reports the slot guard above, not this.
	existing, err := ic.Account(ctx, asset)
	if err != nil {
		return err
	}
	if !existing.Empty() {
		return ErrInvalidAsset
	}
	record.LastSlot = clock.Slot

	acct, err := ic.Account(ctx, tracker)
	if err != nil {
		return err
	}
	if err := record.Save(acct.Data); err != nil {
		return err
	}
	if err := ic.SetAccount(ctx, tracker, acct); err != nil {
		return err
	}

	if err := ic.Invoke(ctx, system.Transfer(payer, GlobalSignerAddress, MintFee)); err != nil {
		return err
	}

	schedule := ic.EpochSchedule()
	rarity := DetermineRarity(clock.Slot, schedule.FirstSlotInEpoch(clock.Epoch) == clock.Slot)
	if err := ic.Invoke(ctx, core.CreateV1(asset, CollectionAddress, GlobalSignerAddress, payer, core.CreateV1Args{
		Name: rarity.Name(),
		URI:  rarity.URI(),
		Plugins: []core.PluginAuthorityPair{{
			Type: core.PluginAttributes,
			Attributes: []core.Attribute{
				{Key: "Rarity", Value: rarity.String()},
				{Key: "Epoch", Value: strconv.FormatUint(clock.Epoch, 10)},
				{Key: "Slot", Value: strconv.FormatUint(clock.Slot, 10)},
			},
			Authority: core.PluginAuthorityNone,
		}},
	}), GlobalSignerSeeds()); err != nil {
		return err
	}

	p.excavations.WithLabelValues(rarity.String()).Inc()
	ic.Msg("Excavated %s at slot %d", rarity.Name(), clock.Slot)
	ic.Log().Debug("glyph excavated",
		zap.Stringer("asset", asset),
		zap.Stringer("rarity", rarity),
		zap.Uint64("slot", clock.Slot),
	)
	return nil
}

// resolveSlotTracker loads the slot tracker, creating it on first use. A new
// tracker starts one slot behind [slot] so the current slot can be taken.
func resolveSlotTracker(
	ctx context.Context,
	ic *chain.InvokeContext,
	tracker codec.Address,
	payer codec.Address,
	slot uint64,
) (*SlotTrackerRecord, error) {
	acct, err := ic.Account(ctx, tracker)
	if err != nil {
		return nil, err
	}
	if acct.Owner == SystemProgramID && len(acct.Data) == 0 {
		prev, err := smath.Sub(slot, 1)
		if err != nil {
			return nil, ErrNumericalOverflow
		}
		if err := system.CreateOrAllocate(ctx, ic, ID, tracker, payer, SlotTrackerLen, SlotTrackerSeeds()); err != nil {
			return nil, err
		}
		return &SlotTrackerRecord{Key: KeySlotTracker, LastSlot: prev}, nil
	}
	record, err := LoadSlotTracker(acct.Data)
	if err != nil {
		ic.Msg("Error: %v", err)
		return nil, err
	}
	if record.Key != KeySlotTracker {
		return nil, ErrInvalidSlotTrackerKey
	}
	return record, nil
}
