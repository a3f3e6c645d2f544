// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/utils"
)

// targetAddress is [args[0]] if given, else the address of the default key.
func targetAddress(cmd *cobra.Command, args []string) (codec.Address, error) {
	if len(args) > 0 {
		return codec.ParseAddress(args[0])
	}
	key, err := getKey(cmd)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return key.Address(), nil
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := targetAddress(cmd, args)
		if err != nil {
			return err
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bal, err := cli.Balance(ctx, addr)
		if err != nil {
			return err
		}
		return printValue(cmd, balanceResponse{Address: addr, Lamports: bal})
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop [address]",
	Short: "Request lamports from the node faucet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := targetAddress(cmd, args)
		if err != nil {
			return err
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bal, err := cli.Airdrop(ctx, addr)
		if err != nil {
			return err
		}
		return printValue(cmd, balanceResponse{Address: addr, Lamports: bal})
	},
}

type balanceResponse struct {
	Address  codec.Address `json:"address"`
	Lamports uint64        `json:"lamports"`
}

func (r balanceResponse) String() string {
	return fmt.Sprintf("%s: %s SOL", r.Address, utils.FormatBalance(r.Lamports))
}

func init() {
	rootCmd.AddCommand(balanceCmd, airdropCmd)
}
