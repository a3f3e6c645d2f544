// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import "errors"

// ErrInvalidPrivateKey covers malformed hex keys and keypair files whose
// public half does not match the seed.
var ErrInvalidPrivateKey = errors.New("invalid private key")
