// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name              = "glyphs"
	JSONRPCEndpoint   = "/glyphs"
	WebSocketEndpoint = "/ws"

	// Tx messages carry a submitted transaction (client to server) or its
	// outcome (server to client).
	TxMode byte = 0
	// Result messages subscribe to (client to server) or deliver (server to
	// client) every executed transaction.
	ResultMode byte = 1

	maxResultLogs = 256
)
