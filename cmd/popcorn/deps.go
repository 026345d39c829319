// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/viper"

	"github.com/pdiddy/popcorn/internal/logging"
	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/internal/storage"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

// env is what a command needs once config is loaded. Close releases the
// storage backend and the log file.
type env struct {
	cfg     types.Config
	logger  *log.Logger
	client  *omdb.Client
	backend storage.Backend
	store   *watched.Store
	closers []io.Closer
}

func newEnv(ctx context.Context, stderr io.Writer) (*env, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger, logCloser := logging.New(cfg.Log, stderr)

	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		client:  omdb.New(&http.Client{Timeout: cfg.OMDb.Timeout}, cfg.OMDb),
		backend: backend,
		store:   watched.Open(ctx, backend, logger),
		closers: []io.Closer{backend, logCloser},
	}, nil
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Printf("close: %v", err)
		}
	}
}
