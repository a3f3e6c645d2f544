// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumChunks(t *testing.T) {
	tests := []struct {
		size   int
		chunks uint16
	}{
		{size: 0, chunks: 0},
		{size: 1, chunks: 1},
		{size: 64, chunks: 1},
		{size: 65, chunks: 2},
		{size: 10 * 1024, chunks: 160},
	}
	for _, tt := range tests {
		n, ok := numChunks(tt.size)
		require.True(t, ok)
		require.Equal(t, tt.chunks, n, "size %d", tt.size)
	}
}

func TestEncodeVerify(t *testing.T) {
	require := require.New(t)

	k, ok := Encode([]byte("tracker"), 9)
	require.True(ok)
	chunks, ok := MaxChunks(k)
	require.True(ok)
	require.Equal(uint16(1), chunks)
	require.Equal([]byte("tracker"), Trim(k))

	require.True(VerifyValue(k, make([]byte, 64)))
	require.False(VerifyValue(k, make([]byte, 65)))
	require.False(VerifyValue("a", nil))
}
