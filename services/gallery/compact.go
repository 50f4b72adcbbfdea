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
	"time"

	"github.com/dgraph-io/badger/v4"
)

// maxRewritesPerCompact bounds one Compact call so a large backlog cannot
// hold the database for long.
const maxRewritesPerCompact = 16

// Compact reclaims space left by deleted and overwritten specimens.
//
// # Description
//
// Value log files are rewritten one at a time while each pass still finds
// enough garbage (at least the configured discard ratio), up to a fixed
// number of rewrites. An in-memory gallery has nothing to reclaim.
//
// # Outputs
//
//   - int: number of value log files rewritten.
//   - error: ctx's error if cancelled between rewrites, or a database error.
func (g *Gallery) Compact(ctx context.Context) (rewrites int, err error) {
	defer func() { g.metrics.RecordGalleryCompaction(rewrites, err) }()

	if g.inMemory {
		return 0, nil
	}
	for rewrites < maxRewritesPerCompact {
		if err := ctx.Err(); err != nil {
			return rewrites, err
		}
		err := g.db.RunValueLogGC(g.discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			return rewrites, fmt.Errorf("compact gallery: %w", err)
		}
		rewrites++
	}
	if rewrites > 0 {
		slog.Info("gallery: compacted", "rewritten_files", rewrites)
	}
	return rewrites, nil
}

// compactLoop calls Compact every interval until stopped.
type compactLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startCompactLoop(g *Gallery, interval time.Duration) *compactLoop {
	ctx, cancel := context.WithCancel(context.Background())
	l := &compactLoop{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := g.Compact(ctx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Warn("gallery: background compaction failed", "error", err)
				}
			}
		}
	}()
	return l
}

func (l *compactLoop) stop() {
	l.cancel()
	<-l.done
}
