// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Print the endpoint and the clock of its node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		clock, err := cli.Clock(ctx)
		if err != nil {
			return fmt.Errorf("failed to reach %s: %w", endpoint, err)
		}
		return printValue(cmd, endpointResponse{
			Endpoint: endpoint,
			Slot:     clock.Slot,
			Epoch:    clock.Epoch,
		})
	},
}

var endpointSetCmd = &cobra.Command{
	Use:   "set [uri]",
	Short: "Set the endpoint URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfigValue("endpoint", args[0]); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, endpointResponse{Endpoint: args[0]})
	},
}

type endpointResponse struct {
	Endpoint string `json:"endpoint"`
	Slot     uint64 `json:"slot,omitempty"`
	Epoch    uint64 `json:"epoch,omitempty"`
}

func (r endpointResponse) String() string {
	if r.Slot == 0 {
		return r.Endpoint
	}
	return fmt.Sprintf("%s (slot=%d epoch=%d)", r.Endpoint, r.Slot, r.Epoch)
}

func init() {
	endpointCmd.AddCommand(endpointSetCmd)
	rootCmd.AddCommand(endpointCmd)
}
