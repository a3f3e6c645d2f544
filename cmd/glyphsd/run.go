// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"net"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/config"
	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/genesis"
	"github.com/bgl-labs/glyphs/node"
)

var _ Cmd = (*runCmd)(nil)

type runCmd struct {
	cmd *argparse.Command

	configPath  *string
	genesisPath *string
	ephemeral   *bool
	logLevel    *string
	port        *int
}

func (c *runCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("run", "Serves the glyphs programs over JSON-RPC")
	c.configPath = c.cmd.String("c", "config", &argparse.Options{
		Help: "path of the JSON node config",
	})
	c.genesisPath = c.cmd.String("g", "genesis", &argparse.Options{
		Help: "path of the YAML genesis, overrides the config",
	})
	c.ephemeral = c.cmd.Flag("e", "ephemeral", &argparse.Options{
		Help: "keep all state in memory",
	})
	c.logLevel = c.cmd.String("l", "log-level", &argparse.Options{
		Help: "display log level, overrides the config",
	})
	c.port = c.cmd.Int("p", "port", &argparse.Options{
		Help: "HTTP port, overrides the config",
	})
}

func (c *runCmd) Happened() bool {
	return c.cmd.Happened()
}

func (c *runCmd) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return nil, err
	}
	if len(*c.genesisPath) > 0 {
		cfg.GenesisFile = *c.genesisPath
	}
	if *c.ephemeral {
		cfg.Ephemeral = true
	}
	if len(*c.logLevel) > 0 {
		cfg.LogDisplayLevel, err = logging.ToLevel(*c.logLevel)
		if err != nil {
			return nil, err
		}
	}
	if *c.port > 0 {
		cfg.HTTPPort = uint16(*c.port)
	}
	return cfg, nil
}

func (c *runCmd) Run(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	log := node.NewLogger(cfg, nil)
	defer log.Stop()

	g := genesis.NewDefaultGenesis(nil)
	if len(cfg.GenesisFile) > 0 {
		g, err = genesis.LoadFile(cfg.GenesisFile)
		if err != nil {
			return err
		}
	}

	listener, err := net.Listen("tcp", cfg.HTTPAddress())
	if err != nil {
		return err
	}
	n, err := node.New(ctx, log, cfg, g, listener)
	if err != nil {
		_ = listener.Close()
		return err
	}
	log.Info("starting node",
		zap.String("name", consts.Name),
		zap.Stringer("version", consts.Version),
		zap.String("address", listener.Addr().String()),
		zap.Bool("ephemeral", cfg.Ephemeral),
	)
	runErr := n.Run(ctx)
	if err := n.Close(); err != nil {
		log.Warn("failed to close node", zap.Error(err))
	}
	return runErr
}
