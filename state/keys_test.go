// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

func TestUnionPermissions(t *testing.T) {
	tests := []struct {
		name     string
		first    Permissions
		second   Permissions
		expected Permissions
	}{
		{
			name:     "read then write",
			first:    Read,
			second:   Write,
			expected: Write,
		},
		{
			name:     "allocate then write",
			first:    Allocate,
			second:   Write,
			expected: All,
		},
		{
			name:     "none then read",
			first:    None,
			second:   Read,
			expected: Read,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ks := Keys{}
			ks.Add("k", tt.first)
			ks.Add("k", tt.second)
			require.Equal(tt.expected, ks["k"])
			require.True(ks["k"].Has(tt.first))
			require.True(ks["k"].Has(tt.second))
		})
	}
}

func TestPermissionsHas(t *testing.T) {
	require := require.New(t)
	require.True(Write.Has(Read))
	require.False(Read.Has(Write))
	require.False(Write.Has(Allocate))
	require.True(All.Has(Allocate))
	require.True(None.Has(None))
}

func TestSortedKeys(t *testing.T) {
	require := require.New(t)
	ks := Keys{"c": Read, "a": Write, "b": All}
	require.Equal([]string{"a", "b", "c"}, ks.Sorted())
}

func TestFetch(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	require.NoError(db.Put([]byte("a"), []byte{1}))

	values, err := Fetch(context.Background(), NewReader(db), Keys{"a": Read, "b": Read})
	require.NoError(err)
	require.Equal(map[string][]byte{"a": {1}}, values)
}
