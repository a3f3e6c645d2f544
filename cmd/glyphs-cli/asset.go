// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/rpc"
	"github.com/bgl-labs/glyphs/utils"
)

type assetResponse struct {
	Address codec.Address `json:"address"`
	*rpc.AssetReply
}

func (r assetResponse) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.Address, r.Name)
	fmt.Fprintf(&b, "  owner: %s\n", r.Owner)
	fmt.Fprintf(&b, "  uri:   %s", r.URI)
	for _, a := range r.Attributes {
		fmt.Fprintf(&b, "\n  %s: %s", a.Key, a.Value)
	}
	return b.String()
}

var assetCmd = &cobra.Command{
	Use:   "asset [address]",
	Short: "Print a glyph asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := codec.ParseAddress(args[0])
		if err != nil {
			return err
		}
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		asset, err := cli.Asset(ctx, addr)
		if err != nil {
			return err
		}
		if err := printValue(cmd, assetResponse{Address: addr, AssetReply: asset}); err != nil {
			return err
		}
		open, err := cmd.Flags().GetBool("open")
		if err != nil || !open {
			return err
		}
		if err := browser.OpenURL(asset.URI); err != nil {
			utils.Outf("{{red}}unable to open metadata:{{/}} %s\n", err.Error())
		}
		return nil
	},
}

type collectionResponse struct {
	*rpc.CollectionReply
}

func (r collectionResponse) String() string {
	return fmt.Sprintf("%s %s\n  minted: %d\n  size:   %d\n  uri:    %s",
		r.Address, r.Name, r.NumMinted, r.CurrentSize, r.URI)
}

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Print the glyphs collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		collection, err := cli.Collection(ctx)
		if err != nil {
			return err
		}
		return printValue(cmd, collectionResponse{collection})
	},
}

type trackerResponse struct {
	*rpc.SlotTrackerReply
}

func (r trackerResponse) String() string {
	if !r.Initialized {
		return fmt.Sprintf("%s: nothing excavated yet", r.Address)
	}
	return fmt.Sprintf("%s: last excavated slot %d", r.Address, r.LastSlot)
}

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Print the last excavated slot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := getClient(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tracker, err := cli.SlotTracker(ctx)
		if err != nil {
			return err
		}
		return printValue(cmd, trackerResponse{tracker})
	},
}

func init() {
	assetCmd.Flags().Bool("open", false, "Open the metadata URI in a browser")
	rootCmd.AddCommand(assetCmd, collectionCmd, trackerCmd)
}
