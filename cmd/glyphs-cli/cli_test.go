// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/programs/glyphs"
)

func TestDeriveAddresses(t *testing.T) {
	require := require.New(t)

	resp, err := deriveAddresses()
	require.NoError(err)
	require.Len(resp, 2)
	require.Equal(glyphs.GlobalSignerAddress, resp[0].Address)
	require.Equal(glyphs.SlotTrackerAddress, resp[1].Address)
}

func TestLoadKey(t *testing.T) {
	require := require.New(t)

	key, err := ed25519.GeneratePrivateKey()
	require.NoError(err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(key.SaveKeypairFile(path))
	loaded, err := loadKey(path)
	require.NoError(err)
	require.Equal(key, loaded)

	loaded, err = loadKey(key.ToHex())
	require.NoError(err)
	require.Equal(key, loaded)

	_, err = loadKey("not a key")
	require.ErrorIs(err, ed25519.ErrInvalidPrivateKey)
}
