// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/crypto/ed25519"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a keypair file and make it the default key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		if path == "" {
			path = filepath.Join(configDir, "id.json")
		}
		key, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		if err := key.SaveKeypairFile(path); err != nil {
			return fmt.Errorf("failed to save keypair: %w", err)
		}
		if err := setConfigValue("key", path); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, keyResponse{
			Address: key.Address().String(),
			File:    path,
		})
	},
}

var keyImportCmd = &cobra.Command{
	Use:   "import [file|hex]",
	Short: "Make an existing key the default key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey(args[0])
		if err != nil {
			return fmt.Errorf("failed to decode key: %w", err)
		}
		value := args[0]
		if abs, err := filepath.Abs(value); err == nil {
			if _, err := ed25519.LoadKeypairFile(abs); err == nil {
				value = abs
			}
		}
		if err := setConfigValue("key", value); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, keyResponse{
			Address: key.Address().String(),
		})
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print current key address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := getKey(cmd)
		if err != nil {
			return err
		}
		return printValue(cmd, keyResponse{
			Address: key.Address().String(),
		})
	},
}

type keyResponse struct {
	Address string `json:"address"`
	File    string `json:"file,omitempty"`
}

func (r keyResponse) String() string {
	if r.File == "" {
		return r.Address
	}
	return fmt.Sprintf("%s (saved to %s)", r.Address, r.File)
}

func init() {
	keyGenerateCmd.Flags().String("file", "", "Path of the keypair file to write")
	keyCmd.AddCommand(keyGenerateCmd, keyImportCmd)
	rootCmd.AddCommand(keyCmd, addressCmd)
}
