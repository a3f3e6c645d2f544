// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"time"

	"github.com/bgl-labs/glyphs/sysvar"
)

// Rules are the chain parameters fixed at genesis.
type Rules struct {
	SlotsPerEpoch            uint64        `json:"slotsPerEpoch" yaml:"slotsPerEpoch"`
	LeaderScheduleSlotOffset uint64        `json:"leaderScheduleSlotOffset" yaml:"leaderScheduleSlotOffset"`
	Warmup                   bool          `json:"warmup" yaml:"warmup"`
	SlotDuration             time.Duration `json:"slotDuration" yaml:"slotDuration"`
	// Unix seconds of slot 0. Zero means the node start time.
	GenesisTime int64 `json:"genesisTime" yaml:"genesisTime"`
}

func NewDefaultRules() *Rules {
	return &Rules{
		SlotsPerEpoch:            sysvar.DefaultSlotsPerEpoch,
		LeaderScheduleSlotOffset: sysvar.DefaultLeaderScheduleSlotOffset,
		Warmup:                   true,
		SlotDuration:             sysvar.DefaultSlotDuration,
	}
}

func (r *Rules) EpochSchedule() (sysvar.EpochSchedule, error) {
	return sysvar.NewEpochSchedule(r.SlotsPerEpoch, r.LeaderScheduleSlotOffset, r.Warmup)
}

// SlotClock maps wall time to slots. [now] is used as slot 0 when no
// genesis time is set.
func (r *Rules) SlotClock(schedule sysvar.EpochSchedule, now time.Time) *sysvar.SlotClock {
	start := now
	if r.GenesisTime != 0 {
		start = time.Unix(r.GenesisTime, 0)
	}
	return sysvar.NewSlotClock(start, r.SlotDuration, schedule)
}
