// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/chain"
	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/programs/glyphs"
	"github.com/bgl-labs/glyphs/rpc"
)

type excavateResponse struct {
	Asset  codec.Address `json:"asset"`
	Result *chain.Result `json:"result"`
}

func (r excavateResponse) String() string {
	if r.Result.Success {
		return fmt.Sprintf("excavated %s at slot %d (tx=%s)", r.Asset, r.Result.Slot, r.Result.TxID)
	}
	code := "none"
	if r.Result.Code != nil {
		code = fmt.Sprint(*r.Result.Code)
	}
	return fmt.Sprintf("excavation failed at slot %d (tx=%s code=%s): %s", r.Result.Slot, r.Result.TxID, code, r.Result.Error)
}

// excavate mints into a fresh asset keypair paid for by [payer].
func excavate(ctx context.Context, cli *rpc.JSONRPCClient, payer ed25519.PrivateKey) (*excavateResponse, error) {
	asset, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	result, err := cli.GenerateTransaction(
		ctx,
		[]ed25519.PrivateKey{payer, asset},
		glyphs.NewExcavateInstruction(asset.Address(), payer.Address()),
	)
	if err != nil {
		return nil, err
	}
	return &excavateResponse{Asset: asset.Address(), Result: result}, nil
}

func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var excavateCmd = &cobra.Command{
	Use:   "excavate",
	Short: "Excavate a glyph at the current slot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := getKey(cmd)
		if err != nil {
			return err
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if !yes {
			clock, err := cli.Clock(ctx)
			if err != nil {
				return err
			}
			rarity, err := cli.Rarity(ctx, clock.Slot)
			if err != nil {
				return err
			}
			ok, err := confirm(fmt.Sprintf("excavate as %s (slot %d is %s)", key.Address(), clock.Slot, rarity.Rarity))
			if err != nil || !ok {
				return err
			}
		}
		resp, err := excavate(ctx, cli, key)
		if err != nil {
			return err
		}
		return printValue(cmd, resp)
	},
}

func init() {
	excavateCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(excavateCmd)
}
