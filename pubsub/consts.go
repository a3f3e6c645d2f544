// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	readBufferSize         = units.KiB
	writeBufferSize        = units.KiB
	writeWait              = 10 * time.Second
	pongWait               = 60 * time.Second
	pingPeriod             = (pongWait * 9) / 10
	maxReadMessageSize     = 256 * units.KiB
	maxMessageBatchSize    = 1024
	maxPendingMessages     = 1024
	targetWriteMessageSize = 10 * units.KiB
	writeMaxBatchDuration  = 50 * time.Millisecond
)

var (
	ErrClosed          = errors.New("closed")
	ErrMessageTooLarge = errors.New("message too large")
)
