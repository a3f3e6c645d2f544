// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bgl-labs/glyphs/config"
)

// NewLogger writes to stderr at the display level and, when a log file is
// configured, to a rotated file at the log level.
func NewLogger(cfg *config.Config, stderr io.WriteCloser) logging.Logger {
	if stderr == nil {
		stderr = os.Stderr
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.LogDisplayLevel, stderr, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.LogFile) > 0 {
		rw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,  // megabytes
			MaxAge:     cfg.LogMaxAge,   // days
			MaxBackups: cfg.LogMaxFiles, // files
			Compress:   cfg.LogCompress,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.LogLevel, rw, logging.Plain.FileEncoder()))
	}
	return logging.NewLogger("", cores...)
}
