// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotTrackerRoundTrip(t *testing.T) {
	require := require.New(t)

	buf := make([]byte, SlotTrackerLen)
	record := &SlotTrackerRecord{Key: KeySlotTracker, LastSlot: 0x0102030405060708}
	require.NoError(record.Save(buf))
	require.Equal([]byte{1, 8, 7, 6, 5, 4, 3, 2, 1}, buf)

	loaded, err := LoadSlotTracker(buf)
	require.NoError(err)
	require.Equal(record, loaded)
}

func TestLoadSlotTrackerMalformed(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":       nil,
		"short":       {1, 0, 0, 0, 0, 0, 0, 0},
		"long":        make([]byte, SlotTrackerLen+1),
		"unknown key": {2, 0, 0, 0, 0, 0, 0, 0, 0},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSlotTracker(data)
			require.ErrorIs(t, err, ErrDeserialization)
		})
	}
}

func TestSaveSlotTrackerShortBuffer(t *testing.T) {
	record := &SlotTrackerRecord{Key: KeySlotTracker}
	require.ErrorIs(t, record.Save(make([]byte, SlotTrackerLen-1)), ErrSerialization)
}
