// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger. Output goes to stderr, or to
// a size-rotated file when a path is configured.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/popcorn/pkg/types"
)

// Defaults applied when the config leaves them unset.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	prefix            = "popcorn: "
)

// New returns a logger for cfg and a closer for its output. The closer is a
// no-op for stderr.
func New(cfg types.LogConfig, stderr io.Writer) (*log.Logger, io.Closer) {
	if stderr == nil {
		stderr = os.Stderr
	}
	out, closer := Writer(cfg, stderr)
	return log.New(out, prefix, log.LstdFlags|log.Lmsgprefix), closer
}

// Writer returns the destination for cfg.
func Writer(cfg types.LogConfig, stderr io.Writer) (io.Writer, io.Closer) {
	if cfg.File == "" {
		return stderr, nopCloser{}
	}
	size := cfg.MaxSizeMB
	if size <= 0 {
		size = DefaultMaxSizeMB
	}
	backups := cfg.MaxBackups
	if backups <= 0 {
		backups = DefaultMaxBackups
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    size,
		MaxBackups: backups,
	}
	return lj, lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
