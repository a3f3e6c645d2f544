// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/programs/glyphs"
)

type rarityResponse struct {
	Slot   uint64 `json:"slot"`
	Rarity string `json:"rarity"`
	Name   string `json:"name"`
	URI    string `json:"uri"`
}

func (r rarityResponse) String() string {
	return fmt.Sprintf("slot %d: %s (%s)", r.Slot, r.Rarity, r.URI)
}

// rarity is computed locally. The node is only needed to know where epochs
// start, so the boundary is passed as a flag.
var rarityCmd = &cobra.Command{
	Use:   "rarity [slot]",
	Short: "Print the rarity an excavation at a slot would mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		epochStart, err := cmd.Flags().GetBool("epoch-start")
		if err != nil {
			return err
		}
		rarity := glyphs.DetermineRarity(slot, epochStart)
		return printValue(cmd, rarityResponse{
			Slot:   slot,
			Rarity: rarity.String(),
			Name:   rarity.Name(),
			URI:    rarity.URI(),
		})
	},
}

type derivedAddress struct {
	Name    string        `json:"name"`
	Address codec.Address `json:"address"`
	Bump    uint8         `json:"bump"`
}

type deriveResponse []derivedAddress

func (r deriveResponse) String() string {
	s := ""
	for i, d := range r {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("%-13s %s (bump %d)", d.Name, d.Address, d.Bump)
	}
	return s
}

func deriveAddresses() (deriveResponse, error) {
	seeds := []struct {
		name  string
		seeds [][]byte
		bump  uint8
	}{
		{glyphs.GlobalSigner, glyphs.GlobalSignerSeeds(), glyphs.GlobalSignerBump},
		{glyphs.SlotTracker, glyphs.SlotTrackerSeeds(), glyphs.SlotTrackerBump},
	}
	resp := make(deriveResponse, 0, len(seeds))
	for _, s := range seeds {
		addr, err := codec.CreateProgramAddress(s.seeds, glyphs.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, derivedAddress{Name: s.name, Address: addr, Bump: s.bump})
	}
	return resp, nil
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Print the program derived addresses of the glyphs program",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := deriveAddresses()
		if err != nil {
			return err
		}
		return printValue(cmd, resp)
	},
}

func init() {
	rarityCmd.Flags().Bool("epoch-start", false, "The slot is the first of its epoch")
	rootCmd.AddCommand(rarityCmd, deriveCmd)
}
