// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bgl-labs/glyphs/utils"
)

const requestTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:          "glyphs-cli",
	Short:        "Glyphs CLI",
	Long:         `A CLI for excavating glyphs and inspecting a glyphs node.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.Outf("{{red}}glyphs-cli failed:{{/}} %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	rootCmd.PersistentFlags().String("key", "", "Keypair file or private ed25519 key as hex")
}

func main() {
	Execute()
}
