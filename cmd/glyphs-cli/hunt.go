// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bgl-labs/glyphs/genesis"
	"github.com/bgl-labs/glyphs/utils"
)

type huntResponse struct {
	Slot        uint64              `json:"slot"`
	Rarity      string              `json:"rarity"`
	Excavations []*excavateResponse `json:"excavations"`
}

func (r huntResponse) String() string {
	lines := make([]string, 0, len(r.Excavations)+1)
	lines = append(lines, fmt.Sprintf("hunted %s slot %d", r.Rarity, r.Slot))
	for _, e := range r.Excavations {
		lines = append(lines, "  "+e.String())
	}
	return strings.Join(lines, "\n")
}

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Wait for the next rare slot and excavate it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tier, err := cmd.Flags().GetString("tier")
		if err != nil {
			return err
		}
		burst, err := cmd.Flags().GetInt("burst")
		if err != nil {
			return err
		}
		if burst < 1 {
			burst = 1
		}
		key, err := getKey(cmd)
		if err != nil {
			return err
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		clock, err := cli.Clock(ctx)
		if err != nil {
			return err
		}
		next, err := cli.NextRare(ctx, clock.Slot, tier)
		if err != nil {
			return err
		}
		if !next.Found {
			return fmt.Errorf("no %s slot after %d", tier, clock.Slot)
		}
		wait := time.Duration(next.Slot-clock.Slot) * genesis.NewDefaultRules().SlotDuration
		utils.Outf("{{yellow}}waiting for %s slot %d{{/}} (about %s)\n", next.Rarity, next.Slot, wait)
		if _, err := cli.WaitForSlot(ctx, next.Slot); err != nil {
			return err
		}

		resp := huntResponse{
			Slot:        next.Slot,
			Rarity:      next.Rarity,
			Excavations: make([]*excavateResponse, burst),
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < burst; i++ {
			i := i
			g.Go(func() error {
				e, err := excavate(gctx, cli, key)
				if err != nil {
					return err
				}
				resp.Excavations[i] = e
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return printValue(cmd, resp)
	},
}

func init() {
	huntCmd.Flags().String("tier", "silver", "Minimum rarity to wait for")
	huntCmd.Flags().Int("burst", 1, "Number of excavations to race at the slot")
	rootCmd.AddCommand(huntCmd)
}
