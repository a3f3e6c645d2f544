// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys maps every state key a transaction touches to the permissions it
// holds on that key.
type Keys map[string]Permissions

type Permissions byte

// Add unions [permission] into the permissions already held for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Sorted returns the keys in lexical order. Locks are acquired in this order.
func (k Keys) Sorted() []string {
	out := maps.Keys(k)
	slices.Sort(out)
	return out
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

func (p Permissions) String() string {
	switch p {
	case None:
		return "none"
	case Read:
		return "read"
	case Allocate:
		return "allocate"
	case Write:
		return "write"
	case All:
		return "all"
	default:
		return "unknown"
	}
}
