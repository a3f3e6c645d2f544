// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/bgl-labs/glyphs/codec"
)

// Key is the first byte of every record and names its layout.
type Key uint8

const (
	KeyUninitialized Key = 0
	KeyAssetV1       Key = 1
	KeyCollectionV1  Key = 5
)

// UpdateAuthority kinds.
const (
	UpdateAuthorityNone       uint8 = 0
	UpdateAuthorityAddress    uint8 = 1
	UpdateAuthorityCollection uint8 = 2
)

// PluginAuthority kinds.
const (
	PluginAuthorityNone            uint8 = 0
	PluginAuthorityOwner           uint8 = 1
	PluginAuthorityUpdateAuthority uint8 = 2
)

// PluginAttributes is the only plugin type the registry accepts.
const PluginAttributes uint8 = 6

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PluginAuthorityPair is a plugin together with the authority allowed to
// change it.
type PluginAuthorityPair struct {
	Type       uint8       `json:"type"`
	Attributes []Attribute `json:"attributes"`
	Authority  uint8       `json:"authority"`
}

type CollectionV1 struct {
	Key             uint8      `json:"key"`
	UpdateAuthority [32]byte   `json:"-"`
	Name            string     `json:"name"`
	URI             string     `json:"uri"`
	NumMinted       uint32     `json:"numMinted"`
	CurrentSize     uint32     `json:"currentSize"`
	UpdateDelegates [][32]byte `json:"-"`
}

// IsAuthority returns true if [addr] may add assets to [c].
func (c *CollectionV1) IsAuthority(addr codec.Address) bool {
	if codec.Address(c.UpdateAuthority) == addr {
		return true
	}
	for _, d := range c.UpdateDelegates {
		if codec.Address(d) == addr {
			return true
		}
	}
	return false
}

type AssetV1 struct {
	Key                 uint8       `json:"key"`
	Owner               [32]byte    `json:"-"`
	UpdateAuthorityKind uint8       `json:"updateAuthorityKind"`
	UpdateAuthority     [32]byte    `json:"-"`
	Name                string      `json:"name"`
	URI                 string      `json:"uri"`
	Attributes          []Attribute `json:"attributes"`
	AttributesAuthority uint8       `json:"attributesAuthority"`
}

// Attribute returns the value stored under [key] by the attributes plugin.
func (a *AssetV1) Attribute(key string) (string, bool) {
	for _, attr := range a.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

func DecodeCollection(data []byte) (*CollectionV1, error) {
	if len(data) == 0 || Key(data[0]) != KeyCollectionV1 {
		return nil, ErrNotInitialized
	}
	var c CollectionV1
	if err := borsh.Deserialize(&c, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	return &c, nil
}

func DecodeAsset(data []byte) (*AssetV1, error) {
	if len(data) == 0 || Key(data[0]) != KeyAssetV1 {
		return nil, ErrNotInitialized
	}
	var a AssetV1
	if err := borsh.Deserialize(&a, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	return &a, nil
}

// EncodeCollection is used by genesis to seed a collection directly.
func EncodeCollection(c *CollectionV1) ([]byte, error) {
	return borsh.Serialize(*c)
}

func encodeAsset(a *AssetV1) ([]byte, error) {
	return borsh.Serialize(*a)
}
