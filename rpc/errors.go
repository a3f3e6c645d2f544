// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrClosed          = errors.New("closed")
	ErrUnexpectedMode  = errors.New("unexpected message mode")
	ErrNotSlotTracker  = errors.New("account is not the slot tracker")
	ErrAccountNotOwned = errors.New("account is not owned by the asset registry")
	ErrFaucetDisabled  = errors.New("faucet disabled")
	ErrTxNotFound      = errors.New("transaction not found")
)
