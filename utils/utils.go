// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// NativeDecimals is the number of decimal places in one SOL.
const NativeDecimals = 9

var ErrInvalidBalance = errors.New("invalid balance")

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

func ErrBytes(err error) []byte {
	return []byte(err.Error())
}

// Outputs to stdout.
//
// e.g.,
//
//	Outf("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Outf("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatBalance renders lamports as SOL.
func FormatBalance(bal uint64) string {
	whole := bal / 1_000_000_000
	frac := bal % 1_000_000_000
	return fmt.Sprintf("%d.%09d", whole, frac)
}

// ParseBalance is the inverse of [FormatBalance]. It accepts up to
// [NativeDecimals] fractional digits.
func ParseBalance(bal string) (uint64, error) {
	whole, frac, _ := strings.Cut(bal, ".")
	if len(frac) > NativeDecimals {
		return 0, fmt.Errorf("%w: too many decimals in %q", ErrInvalidBalance, bal)
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	frac += strings.Repeat("0", NativeDecimals-len(frac))
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	if w > (^uint64(0)-f)/1_000_000_000 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidBalance, bal)
	}
	return w*1_000_000_000 + f, nil
}
