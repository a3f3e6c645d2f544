// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package glyphs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bgl-labs/glyphs/sysvar"
)

// Rarity tiers, most common first.
type Rarity uint8

const (
	Stone Rarity = iota
	Jade
	Bronze
	Silver
	Gold
	Obsidian
	Neon
)

const (
	jadeMask     uint64 = 1<<10 - 1
	silverMask   uint64 = 1<<20 - 1
	goldMask     uint64 = 1<<22 - 1
	obsidianMask uint64 = 1<<24 - 1
	neonMask     uint64 = 1<<26 - 1
)

var (
	ErrUnknownRarity = errors.New("unknown rarity")

	rarityNames = [...]string{"Stone", "Jade", "Bronze", "Silver", "Gold", "Obsidian", "Neon"}
)

// Rarities lists every tier, most common first.
func Rarities() []Rarity {
	return []Rarity{Stone, Jade, Bronze, Silver, Gold, Obsidian, Neon}
}

// DetermineRarity maps [slot] to its tier. Masks are tested rarest first and
// the epoch boundary ranks between Silver and Jade. Every slot that matches
// nothing is Stone.
func DetermineRarity(slot uint64, firstSlotOfEpoch bool) Rarity {
	switch {
	case slot&neonMask == 0:
		return Neon
	case slot&obsidianMask == 0:
		return Obsidian
	case slot&goldMask == 0:
		return Gold
	case slot&silverMask == 0:
		return Silver
	case firstSlotOfEpoch:
		return Bronze
	case slot&jadeMask == 0:
		return Jade
	default:
		return Stone
	}
}

// RarityAt is [DetermineRarity] with the epoch boundary taken from
// [schedule].
func RarityAt(schedule sysvar.EpochSchedule, slot uint64) Rarity {
	return DetermineRarity(slot, schedule.IsFirstSlotInEpoch(slot))
}

func (r Rarity) String() string {
	if int(r) < len(rarityNames) {
		return rarityNames[r]
	}
	return fmt.Sprintf("Rarity(%d)", uint8(r))
}

// Name is the display name of an asset of tier [r].
func (r Rarity) Name() string {
	return r.String() + " Glyph"
}

// URI is the metadata location of an asset of tier [r].
func (r Rarity) URI() string {
	return "https://glyphs.quest/" + strings.ToLower(r.String()) + ".json"
}

func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(name, s) {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, s)
}

// NextRare returns the first slot strictly after [after] whose tier is at
// least [tier], and that slot's tier. It returns false if no such slot fits
// in a uint64.
func NextRare(schedule sysvar.EpochSchedule, after uint64, tier Rarity) (uint64, Rarity, bool) {
	var (
		next uint64
		ok   bool
	)
	switch tier {
	case Stone:
		next, ok = after+1, after != ^uint64(0)
	case Jade, Bronze:
		mask := jadeMask
		if tier == Bronze {
			mask = silverMask
		}
		next, ok = alignAfter(after, mask)
		epoch := schedule.Epoch(after)
		if boundary := schedule.FirstSlotInEpoch(epoch + 1); boundary > after && (!ok || boundary < next) {
			next, ok = boundary, true
		}
	case Silver:
		next, ok = alignAfter(after, silverMask)
	case Gold:
		next, ok = alignAfter(after, goldMask)
	case Obsidian:
		next, ok = alignAfter(after, obsidianMask)
	case Neon:
		next, ok = alignAfter(after, neonMask)
	default:
		return 0, 0, false
	}
	if !ok {
		return 0, 0, false
	}
	return next, RarityAt(schedule, next), true
}

// alignAfter returns the smallest multiple of mask+1 greater than [after].
func alignAfter(after, mask uint64) (uint64, bool) {
	next := (after | mask) + 1
	return next, next != 0
}
