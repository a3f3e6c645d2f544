// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/rpc"
	"github.com/bgl-labs/glyphs/utils"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream every transaction executed by the node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint", true)
		if err != nil {
			return err
		}
		ws, err := rpc.NewWebSocketClient(endpoint)
		if err != nil {
			return err
		}
		defer ws.Close()
		if err := ws.RegisterResults(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		utils.Outf("{{yellow}}watching %s{{/}}\n", endpoint)
		for {
			r, err := ws.ListenResult(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			if r.Success {
				utils.Outf("{{green}}%d{{/}} %s %v\n", r.Slot, r.TxID, r.Logs)
				continue
			}
			utils.Outf("{{red}}%d{{/}} %s %s\n", r.Slot, r.TxID, r.Error)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
