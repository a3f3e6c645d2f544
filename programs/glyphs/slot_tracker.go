// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"github.com/near/borsh-go"
)

// Key is the first byte of every account the program owns.
type Key uint8

const (
	KeyUninitialized Key = iota
	KeySlotTracker
)

// SlotTrackerLen is the size of the slot tracker account.
const SlotTrackerLen = 1 + 8

// SlotTrackerRecord remembers the last slot an excavation happened in.
type SlotTrackerRecord struct {
	Key      Key    `json:"key"`
	LastSlot uint64 `json:"lastSlot"`
}

// LoadSlotTracker decodes the slot tracker account data.
func LoadSlotTracker(data []byte) (*SlotTrackerRecord, error) {
	if len(data) != SlotTrackerLen {
		return nil, ErrDeserialization
	}
	var r SlotTrackerRecord
	if err := borsh.Deserialize(&r, data); err != nil {
		return nil, ErrDeserialization
	}
	if r.Key > KeySlotTracker {
		return nil, ErrDeserialization
	}
	return &r, nil
}

// Save encodes [r] into the first [SlotTrackerLen] bytes of [buf].
func (r *SlotTrackerRecord) Save(buf []byte) error {
	if len(buf) < SlotTrackerLen {
		return ErrSerialization
	}
	b, err := borsh.Serialize(*r)
	if err != nil || len(b) != SlotTrackerLen {
		return ErrSerialization
	}
	copy(buf, b)
	return nil
}
