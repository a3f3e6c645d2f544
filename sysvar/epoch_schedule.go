// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sysvar

import (
	"errors"
	"math/bits"
)

const (
	// MinimumSlotsPerEpoch is the length of the first epoch when warmup is
	// enabled. Each warmup epoch doubles in length until [SlotsPerEpoch] is
	// reached.
	MinimumSlotsPerEpoch uint64 = 32

	DefaultSlotsPerEpoch uint64 = 432_000
	// DefaultLeaderScheduleSlotOffset matches the slots per epoch.
	DefaultLeaderScheduleSlotOffset = DefaultSlotsPerEpoch
)

var ErrInvalidSlotsPerEpoch = errors.New("slots per epoch must be at least the minimum")

// EpochSchedule maps slots to epochs.
type EpochSchedule struct {
	SlotsPerEpoch            uint64 `json:"slotsPerEpoch"`
	LeaderScheduleSlotOffset uint64 `json:"leaderScheduleSlotOffset"`
	Warmup                   bool   `json:"warmup"`
	FirstNormalEpoch         uint64 `json:"firstNormalEpoch"`
	FirstNormalSlot          uint64 `json:"firstNormalSlot"`
}

// DefaultEpochSchedule is the mainnet schedule.
func DefaultEpochSchedule() EpochSchedule {
	s, _ := NewEpochSchedule(DefaultSlotsPerEpoch, DefaultLeaderScheduleSlotOffset, true)
	return s
}

func NewEpochSchedule(slotsPerEpoch, leaderScheduleSlotOffset uint64, warmup bool) (EpochSchedule, error) {
	if slotsPerEpoch < MinimumSlotsPerEpoch {
		return EpochSchedule{}, ErrInvalidSlotsPerEpoch
	}
	s := EpochSchedule{
		SlotsPerEpoch:            slotsPerEpoch,
		LeaderScheduleSlotOffset: leaderScheduleSlotOffset,
		Warmup:                   warmup,
	}
	if warmup {
		s.FirstNormalEpoch = uint64(trailingZeros(nextPowerOfTwo(slotsPerEpoch)) - trailingZeros(MinimumSlotsPerEpoch))
		s.FirstNormalSlot = (pow2(s.FirstNormalEpoch) - 1) * MinimumSlotsPerEpoch
	}
	return s, nil
}

// SlotsInEpoch returns the length of [epoch].
func (s EpochSchedule) SlotsInEpoch(epoch uint64) uint64 {
	if epoch < s.FirstNormalEpoch {
		return pow2(epoch + uint64(trailingZeros(MinimumSlotsPerEpoch)))
	}
	return s.SlotsPerEpoch
}

// EpochAndSlotIndex returns the epoch containing [slot] and the offset of
// [slot] within it.
func (s EpochSchedule) EpochAndSlotIndex(slot uint64) (uint64, uint64) {
	if slot < s.FirstNormalSlot {
		epoch := uint64(trailingZeros(nextPowerOfTwo(slot+MinimumSlotsPerEpoch+1))) -
			uint64(trailingZeros(MinimumSlotsPerEpoch)) - 1
		epochLen := pow2(epoch + uint64(trailingZeros(MinimumSlotsPerEpoch)))
		return epoch, slot - (epochLen - MinimumSlotsPerEpoch)
	}
	normalSlotIndex := slot - s.FirstNormalSlot
	normalEpochIndex := normalSlotIndex / s.SlotsPerEpoch
	return s.FirstNormalEpoch + normalEpochIndex, normalSlotIndex % s.SlotsPerEpoch
}

func (s EpochSchedule) Epoch(slot uint64) uint64 {
	epoch, _ := s.EpochAndSlotIndex(slot)
	return epoch
}

// FirstSlotInEpoch returns the first slot of [epoch].
func (s EpochSchedule) FirstSlotInEpoch(epoch uint64) uint64 {
	if epoch <= s.FirstNormalEpoch {
		return (pow2(epoch) - 1) * MinimumSlotsPerEpoch
	}
	return (epoch-s.FirstNormalEpoch)*s.SlotsPerEpoch + s.FirstNormalSlot
}

func (s EpochSchedule) LastSlotInEpoch(epoch uint64) uint64 {
	return s.FirstSlotInEpoch(epoch) + s.SlotsInEpoch(epoch) - 1
}

// IsFirstSlotInEpoch returns true if [slot] opens its epoch.
func (s EpochSchedule) IsFirstSlotInEpoch(slot uint64) bool {
	return s.FirstSlotInEpoch(s.Epoch(slot)) == slot
}

func pow2(n uint64) uint64 {
	return 1 << n
}

func trailingZeros(n uint64) int {
	return bits.TrailingZeros64(n)
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << (64 - bits.LeadingZeros64(n-1))
}
