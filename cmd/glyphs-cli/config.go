// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/rpc"
)

const configFolder = ".glyphs-cli"

var (
	ErrMissingValue = errors.New("required value not found")

	configDir string
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting home directory:", err)
		os.Exit(1)
	}

	configDir = filepath.Join(homeDir, configFolder)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error creating config directory:", err)
		os.Exit(1)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error creating config file:", err)
			os.Exit(1)
		}
		_ = f.Close()
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.SetDefault("endpoint", "http://127.0.0.1:8899")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := getConfigValue(cmd, "output", false)
	if err != nil {
		return false, fmt.Errorf("failed to get output format: %w", err)
	}
	return strings.ToLower(output) == "json", nil
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}
	if !isJSON {
		fmt.Println(v.String())
		return nil
	}
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

// getConfigValue prefers the flag, then the config file.
func getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}
	if value := viper.GetString(key); value != "" {
		return value, nil
	}
	if required {
		return "", fmt.Errorf("%w: %s", ErrMissingValue, key)
	}
	return "", nil
}

func setConfigValue(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// loadKey reads a keypair file, falling back to a hex encoded key.
func loadKey(keyString string) (ed25519.PrivateKey, error) {
	if _, err := os.Stat(keyString); err == nil {
		return ed25519.LoadKeypairFile(keyString)
	}
	return ed25519.HexToKey(keyString)
}

func getKey(cmd *cobra.Command) (ed25519.PrivateKey, error) {
	keyString, err := getConfigValue(cmd, "key", true)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	key, err := loadKey(keyString)
	if err != nil {
		return ed25519.EmptyPrivateKey, fmt.Errorf("failed to decode key: %w", err)
	}
	return key, nil
}

func getClient(cmd *cobra.Command) (*rpc.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, err
	}
	return rpc.NewJSONRPCClient(endpoint), nil
}
