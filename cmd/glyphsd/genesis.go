// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/genesis"
	"github.com/bgl-labs/glyphs/utils"
)

var (
	_ Cmd = (*genesisCmd)(nil)

	ErrInvalidAllocation = errors.New("allocation must be <address>:<sol>")
)

type genesisCmd struct {
	cmd *argparse.Command

	authority   *string
	allocations *[]string
	output      *string
}

func (c *genesisCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("genesis", "Writes a genesis file")
	c.authority = c.cmd.String("a", "authority", &argparse.Options{
		Help: "update authority of the glyphs collection",
	})
	c.allocations = c.cmd.StringList("f", "fund", &argparse.Options{
		Help: "initial balance as <address>:<sol>, may be repeated",
	})
	c.output = c.cmd.String("o", "output", &argparse.Options{
		Help:    "genesis file to write",
		Default: "genesis.yaml",
	})
}

func (c *genesisCmd) Happened() bool {
	return c.cmd.Happened()
}

func parseAllocation(s string) (*genesis.CustomAllocation, error) {
	addr, sol, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAllocation, s)
	}
	a, err := codec.ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	lamports, err := utils.ParseBalance(sol)
	if err != nil {
		return nil, err
	}
	return &genesis.CustomAllocation{Address: a, Lamports: lamports}, nil
}

func (c *genesisCmd) Run(context.Context) error {
	allocs := make([]*genesis.CustomAllocation, 0, len(*c.allocations))
	for _, s := range *c.allocations {
		alloc, err := parseAllocation(s)
		if err != nil {
			return err
		}
		allocs = append(allocs, alloc)
	}
	g := genesis.NewDefaultGenesis(allocs)
	if len(*c.authority) > 0 {
		authority, err := codec.ParseAddress(*c.authority)
		if err != nil {
			return err
		}
		g.CollectionUpdateAuthority = authority
	}
	b, err := g.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*c.output, b, 0o600); err != nil {
		return err
	}
	utils.Outf("{{green}}created genesis:{{/}} %s\n", *c.output)
	return nil
}
