// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"

	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/utils"
)

type Cmd interface {
	New(parser *argparse.Parser)
	Run(ctx context.Context) error
	Happened() bool
}

func main() {
	parser := argparse.NewParser(consts.Name+"d", "Runs a glyphs node")
	cmds := []Cmd{
		&runCmd{},
		&genesisCmd{},
		&versionCmd{},
	}
	for _, c := range cmds {
		c.New(parser)
	}
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cmds)
	cancel()
	if err != nil {
		utils.Outf("{{red}}fatal error:{{/}} %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmds []Cmd) error {
	for _, c := range cmds {
		if c.Happened() {
			return c.Run(ctx)
		}
	}
	return nil
}

type versionCmd struct {
	cmd *argparse.Command
}

func (c *versionCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("version", "Prints the node version")
}

func (*versionCmd) Run(context.Context) error {
	utils.Outf("{{yellow}}%s{{/}} %s\n", consts.Name, consts.Version)
	return nil
}

func (c *versionCmd) Happened() bool {
	return c.cmd.Happened()
}
