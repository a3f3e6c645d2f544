// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sysvar holds the cluster-wide values every program can read: the
// current clock and the epoch schedule.
package sysvar

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const DefaultSlotDuration = 400 * time.Millisecond

var _ zapcore.ObjectMarshaler = Clock{}

type Clock struct {
	Slot          uint64 `json:"slot"`
	Epoch         uint64 `json:"epoch"`
	UnixTimestamp int64  `json:"unixTimestamp"`
}

func (c Clock) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("slot", c.Slot)
	enc.AddUint64("epoch", c.Epoch)
	enc.AddInt64("unixTimestamp", c.UnixTimestamp)
	return nil
}

// ClockSource returns the clock transactions execute against.
type ClockSource interface {
	Clock() Clock
}

type ClockFunc func() Clock

func (f ClockFunc) Clock() Clock {
	return f()
}

// FixedClock always reports [slot]. It is used by tests and replay.
func FixedClock(schedule EpochSchedule, slot uint64) ClockSource {
	return ClockFunc(func() Clock {
		return Clock{
			Slot:  slot,
			Epoch: schedule.Epoch(slot),
		}
	})
}

// SlotClock derives the current slot from wall time.
type SlotClock struct {
	Genesis      time.Time
	SlotDuration time.Duration
	Schedule     EpochSchedule

	now func() time.Time
}

func NewSlotClock(genesis time.Time, slotDuration time.Duration, schedule EpochSchedule) *SlotClock {
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}
	return &SlotClock{
		Genesis:      genesis,
		SlotDuration: slotDuration,
		Schedule:     schedule,
		now:          time.Now,
	}
}

// SlotAt returns the slot in progress at [t]. Times before genesis map to
// slot 0.
func (c *SlotClock) SlotAt(t time.Time) uint64 {
	if t.Before(c.Genesis) {
		return 0
	}
	return uint64(t.Sub(c.Genesis) / c.SlotDuration)
}

// SlotStart returns the wall time at which [slot] begins.
func (c *SlotClock) SlotStart(slot uint64) time.Time {
	return c.Genesis.Add(time.Duration(slot) * c.SlotDuration)
}

func (c *SlotClock) ClockAt(t time.Time) Clock {
	slot := c.SlotAt(t)
	return Clock{
		Slot:          slot,
		Epoch:         c.Schedule.Epoch(slot),
		UnixTimestamp: c.SlotStart(slot).Unix(),
	}
}

func (c *SlotClock) Clock() Clock {
	return c.ClockAt(c.now())
}
