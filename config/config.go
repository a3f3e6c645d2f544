// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/pebble"
	"github.com/bgl-labs/glyphs/pubsub"
	"github.com/bgl-labs/glyphs/server"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/trace"
)

const (
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 8899
	defaultShutdownTimeout = 10 * time.Second
	defaultFaucetAmount    = 10 * storage.LamportsPerSOL
	defaultRecentResults   = 256
	defaultLogMaxSize      = 8 // MB
	defaultLogMaxFiles     = 5
	defaultLogMaxAge       = 0 // days
)

type Config struct {
	// Storage
	DataDir   string        `json:"dataDir"`
	Ephemeral bool          `json:"ephemeral"` // in-memory database
	Pebble    pebble.Config `json:"pebble"`

	// Genesis file (YAML or JSON). Empty uses the default genesis.
	GenesisFile string `json:"genesisFile"`

	// HTTP
	HTTPHost        string              `json:"httpHost"`
	HTTPPort        uint16              `json:"httpPort"`
	HTTP            server.HTTPConfig   `json:"http"`
	AllowedOrigins  []string            `json:"allowedOrigins"`
	AllowedHosts    []string            `json:"allowedHosts"`
	ShutdownTimeout time.Duration       `json:"shutdownTimeout"`
	Streaming       pubsub.ServerConfig `json:"streaming"`

	// Faucet amount credited by the airdrop RPC. Zero disables it.
	FaucetAmount uint64 `json:"faucetAmount"`

	// Number of execution results kept for the results RPC.
	RecentResults int `json:"recentResults"`

	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogFile         string        `json:"logFile"`
	LogMaxSize      int           `json:"logMaxSize"`
	LogMaxFiles     int           `json:"logMaxFiles"`
	LogMaxAge       int           `json:"logMaxAge"`
	LogCompress     bool          `json:"logCompress"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`
}

// NewDefault returns the configuration used when no file is given.
func NewDefault() *Config {
	return &Config{
		DataDir:         ".glyphs",
		Pebble:          pebble.NewDefaultConfig(),
		HTTPHost:        defaultHTTPHost,
		HTTPPort:        defaultHTTPPort,
		HTTP:            server.NewDefaultHTTPConfig(),
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: defaultShutdownTimeout,
		Streaming:       *pubsub.NewDefaultServerConfig(),
		FaucetAmount:    defaultFaucetAmount,
		RecentResults:   defaultRecentResults,
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		LogMaxSize:      defaultLogMaxSize,
		LogMaxFiles:     defaultLogMaxFiles,
		LogMaxAge:       defaultLogMaxAge,
		TraceSampleRate: 1,
		TraceEndpoint:   trace.DefaultEndpoint,
	}
}

// New decodes [b] on top of [NewDefault].
func New(b []byte) (*Config, error) {
	c := NewDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	return c, nil
}

// Load reads the config at [path]. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		return NewDefault(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) HTTPAddress() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(int(c.HTTPPort)))
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Version:         consts.Version.String(),
	}
}
