// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/bgl-labs/glyphs/consts"

func BytesLen(msg []byte) int {
	return consts.IntLen + len(msg)
}

// StringLen is the packed size of [msg]. Strings carry a 2-byte length.
func StringLen(msg string) int {
	return consts.Uint16Len + len(msg)
}
