// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for the gallery database.
type Config struct {
	// Dir is the directory for the BadgerDB files.
	// Required unless InMemory is true.
	Dir string

	// InMemory keeps the gallery in RAM only. Used by tests.
	InMemory bool

	// SyncWrites makes every Save durable before it returns.
	SyncWrites bool

	// Logger receives BadgerDB's internal log lines. If nil they are dropped.
	Logger *slog.Logger

	// GCInterval is how often the background compaction runs.
	// Zero disables it; Compact can still be called directly.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum discardable fraction before a value log
	// file is rewritten.
	GCDiscardRatio float64
}

// DefaultConfig returns the configuration for a persistent gallery in dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		SyncWrites:     true,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns configuration for tests: no disk I/O, no GC.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// dbLog routes BadgerDB's printf-style output to slog. Badger's info lines
// are startup and compaction chatter, so they are logged at debug.
type dbLog struct {
	logger *slog.Logger
}

func (d dbLog) emit(level slog.Level, format string, args []interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	d.logger.Log(context.Background(), level, msg, "component", "gallery_db")
}

func (d dbLog) Errorf(format string, args ...interface{})   { d.emit(slog.LevelError, format, args) }
func (d dbLog) Warningf(format string, args ...interface{}) { d.emit(slog.LevelWarn, format, args) }
func (d dbLog) Infof(format string, args ...interface{})    { d.emit(slog.LevelDebug, format, args) }
func (d dbLog) Debugf(format string, args ...interface{})   { d.emit(slog.LevelDebug, format, args) }

func openDB(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("gallery directory is required for a persistent gallery")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create gallery directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(dbLog{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open gallery database: %w", err)
	}
	return db, nil
}
