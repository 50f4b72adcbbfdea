// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gallery persists named snapshots ("specimens") of organism records
// in an embedded BadgerDB.
//
// # Description
//
// Specimens are keyed by variant and ID:
//
//	specimen/<variant>/<uuid>  →  JSON envelope {id, variant, name, savedAt, dna}
//
// Records are validated on the way in and again on the way out, so a
// specimen handed to a caller can be loaded into a store with Replace.
//
// # Thread Safety
//
// A Gallery is safe for concurrent use.
package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
)

const keyPrefix = "specimen/"

var (
	// ErrNotFound is returned when no specimen has the requested ID.
	ErrNotFound = errors.New("specimen not found")

	// ErrCorrupt is returned when a stored specimen cannot be decoded or
	// no longer validates.
	ErrCorrupt = errors.New("corrupt specimen")
)

// Specimen is a saved record.
type Specimen struct {
	ID      uuid.UUID
	Variant dna.Variant
	Name    string
	SavedAt time.Time
	Record  dna.Record
}

// envelope is the stored form of a Specimen.
type envelope struct {
	ID      string          `json:"id"`
	Variant string          `json:"variant"`
	Name    string          `json:"name"`
	SavedAt time.Time       `json:"savedAt"`
	DNA     json.RawMessage `json:"dna"`
}

// Option configures a Gallery.
type Option func(*Gallery)

// WithMetrics records gallery operations.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gallery) { g.metrics = m }
}

// WithNow overrides the clock used for SavedAt.
func WithNow(now func() time.Time) Option {
	return func(g *Gallery) { g.now = now }
}

// Gallery is a BadgerDB-backed specimen store.
type Gallery struct {
	db           *badger.DB
	compactor    *compactLoop
	inMemory     bool
	discardRatio float64
	metrics      *observability.Metrics
	now          func() time.Time
}

// Open opens the gallery described by cfg.
//
// # Inputs
//
//   - cfg: database configuration. Dir is required unless InMemory is set.
//   - opts: optional metrics and clock.
//
// # Outputs
//
//   - *Gallery: the opened gallery. Call Close when done.
//   - error: non-nil if the database cannot be opened.
func Open(cfg Config, opts ...Option) (*Gallery, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	ratio := cfg.GCDiscardRatio
	if ratio == 0 {
		ratio = DefaultConfig("").GCDiscardRatio
	}
	if ratio <= 0 || ratio >= 1 {
		db.Close()
		return nil, fmt.Errorf("gallery discard ratio %v must be between 0 and 1", cfg.GCDiscardRatio)
	}
	g := &Gallery{db: db, inMemory: cfg.InMemory, discardRatio: ratio, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		g.compactor = startCompactLoop(g, cfg.GCInterval)
	}
	return g, nil
}

// Close stops background compaction and closes the database.
func (g *Gallery) Close() error {
	if g.compactor != nil {
		g.compactor.stop()
	}
	return g.db.Close()
}

// Save stores rec as a new specimen named after the record.
//
// # Outputs
//
//   - Specimen: the saved specimen with a fresh ID.
//   - error: wraps dna.ErrValidation if rec is invalid; nothing is stored.
func (g *Gallery) Save(ctx context.Context, rec dna.Record) (sp Specimen, err error) {
	defer func() { g.metrics.RecordGalleryOp("save", err) }()

	if rec == nil {
		return Specimen{}, errors.New("save specimen: nil record")
	}
	if err := rec.Validate(); err != nil {
		return Specimen{}, fmt.Errorf("save specimen: %w", err)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return Specimen{}, fmt.Errorf("encode record: %w", err)
	}

	sp = Specimen{
		ID:      uuid.New(),
		Variant: rec.Variant(),
		Name:    recordName(rec),
		SavedAt: g.now().UTC(),
		Record:  rec,
	}
	val, err := json.Marshal(envelope{
		ID:      sp.ID.String(),
		Variant: sp.Variant.String(),
		Name:    sp.Name,
		SavedAt: sp.SavedAt,
		DNA:     raw,
	})
	if err != nil {
		return Specimen{}, fmt.Errorf("encode specimen: %w", err)
	}

	err = g.update(ctx, func(txn *badger.Txn) error {
		return txn.Set(specimenKey(sp.Variant, sp.ID), val)
	})
	if err != nil {
		return Specimen{}, fmt.Errorf("save specimen: %w", err)
	}
	slog.Info("gallery: specimen saved", "id", sp.ID.String(), "variant", sp.Variant.String(), "name", sp.Name)
	return sp, nil
}

// Get loads the specimen with the given ID.
func (g *Gallery) Get(ctx context.Context, id uuid.UUID) (sp Specimen, err error) {
	defer func() { g.metrics.RecordGalleryOp("get", err) }()

	err = g.view(ctx, func(txn *badger.Txn) error {
		key, err := findKey(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sp, err = decodeSpecimen(val)
			return err
		})
	})
	if err != nil {
		return Specimen{}, fmt.Errorf("get specimen %s: %w", id, err)
	}
	return sp, nil
}

// List returns the specimens of the given variants, newest first. With no
// variants it lists every specimen. Corrupt entries are logged and skipped.
func (g *Gallery) List(ctx context.Context, variants ...dna.Variant) (out []Specimen, err error) {
	defer func() { g.metrics.RecordGalleryOp("list", err) }()

	prefixes := [][]byte{[]byte(keyPrefix)}
	if len(variants) > 0 {
		prefixes = prefixes[:0]
		for _, v := range variants {
			if !v.IsValid() {
				return nil, fmt.Errorf("list specimens: invalid variant %s", v)
			}
			prefixes = append(prefixes, variantPrefix(v))
		}
	}

	err = g.view(ctx, func(txn *badger.Txn) error {
		for _, prefix := range prefixes {
			it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, Prefix: prefix})
			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					sp, err := decodeSpecimen(val)
					if err != nil {
						slog.Warn("gallery: skipping corrupt specimen", "key", string(item.Key()), "error", err)
						return nil
					}
					out = append(out, sp)
					return nil
				})
				if err != nil {
					it.Close()
					return err
				}
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list specimens: %w", err)
	}

	slices.SortFunc(out, func(a, b Specimen) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// Delete removes the specimen with the given ID.
func (g *Gallery) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { g.metrics.RecordGalleryOp("delete", err) }()

	err = g.update(ctx, func(txn *badger.Txn) error {
		key, err := findKey(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete specimen %s: %w", id, err)
	}
	slog.Info("gallery: specimen deleted", "id", id.String())
	return nil
}

// ParseID parses a specimen ID as printed by the CLI.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid specimen id %q: %w", s, err)
	}
	return id, nil
}

func (g *Gallery) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return g.db.Update(fn)
}

func (g *Gallery) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return g.db.View(fn)
}

// findKey returns the key of id under whichever variant holds it.
func findKey(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	for _, v := range dna.Variants {
		key := specimenKey(v, id)
		_, err := txn.Get(key)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func variantPrefix(v dna.Variant) []byte {
	return []byte(keyPrefix + v.String() + "/")
}

func specimenKey(v dna.Variant, id uuid.UUID) []byte {
	return append(variantPrefix(v), id.String()...)
}

func decodeSpecimen(val []byte) (Specimen, error) {
	var env envelope
	if err := json.Unmarshal(val, &env); err != nil {
		return Specimen{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	id, err := uuid.Parse(env.ID)
	if err != nil {
		return Specimen{}, fmt.Errorf("%w: id: %v", ErrCorrupt, err)
	}
	v, err := dna.ParseVariant(env.Variant)
	if err != nil {
		return Specimen{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	rec, err := dna.DecodeRecord(v, env.DNA)
	if err != nil {
		return Specimen{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return Specimen{ID: id, Variant: v, Name: env.Name, SavedAt: env.SavedAt, Record: rec}, nil
}

func recordName(rec dna.Record) string {
	switch r := rec.(type) {
	case dna.FlowerDNA:
		return r.Name
	case dna.DecayDNA:
		return r.Name
	case dna.SproutDNA:
		return r.Name
	default:
		return ""
	}
}
