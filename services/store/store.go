// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store holds the live DNA record of each organism variant.
//
// # Description
//
// A Store owns exactly one record and is the only place it changes. Every
// mutation (merge, nudge, pulse, colour-list edit, replace) builds a complete
// new record, checks it, and commits it in one step under the store's lock,
// so subscribers never observe a partially applied edit or an out-of-range
// field.
//
// # Thread Safety
//
// All Store methods are safe for concurrent use. Subscribers are called
// outside the lock, after the commit, with the committed version number.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
)

var (
	// ErrUnknownField is returned when a field name is not part of the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotNumeric is returned by Nudge and Pulse for fields that are not
	// editable numbers (text, colours, internal fields).
	ErrNotNumeric = errors.New("field is not an editable number")

	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("store is closed")
)

// Mutation op labels used in logs and metrics.
const (
	opMerge        = "merge"
	opReplace      = "replace"
	opNudge        = "nudge"
	opPulse        = "pulse"
	opPulseRestore = "pulse_restore"
	opColor        = "color"
)

// =============================================================================
// Options
// =============================================================================

type options struct {
	clock   Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*options)

// WithClock sets the clock used to schedule pulse restoration.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMetrics enables Prometheus counters for mutations and rejections.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// =============================================================================
// Store
// =============================================================================

// Store holds the current record of one variant.
//
// # Fields
//
//   - rec: the committed record. Never shared: Get returns a clone.
//   - version: incremented on every commit.
//   - fieldVersion: per-field commit counter, bumped for each accepted
//     field of a commit even when the value is unchanged. Pulse uses it to
//     detect intervening edits.
//   - pulses: outstanding pulse restorations keyed by field.
type Store[T dna.Value[T]] struct {
	schema  *dna.Schema[T]
	clock   Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	mu           sync.Mutex
	rec          T
	version      uint64
	fieldVersion map[string]uint64
	pulses       map[string]*pendingPulse
	subs         map[int]func(T, uint64)
	nextSub      int
	closed       bool
}

// New creates a store initialised with the schema's default record.
//
// # Examples
//
//	flowers := store.New(dna.Flower, store.WithMetrics(m))
//	defer flowers.Close()
func New[T dna.Value[T]](schema *dna.Schema[T], opts ...Option) *Store[T] {
	o := options{clock: RealClock(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		schema:       schema,
		clock:        o.clock,
		metrics:      o.metrics,
		logger:       o.logger.With("variant", schema.Variant().String()),
		rec:          schema.Default(),
		fieldVersion: make(map[string]uint64),
		pulses:       make(map[string]*pendingPulse),
		subs:         make(map[int]func(T, uint64)),
	}
}

// Variant returns the variant held by the store.
func (s *Store[T]) Variant() dna.Variant {
	return s.schema.Variant()
}

// Schema returns the schema the store validates against.
func (s *Store[T]) Schema() *dna.Schema[T] {
	return s.schema
}

// Get returns a copy of the current record.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone()
}

// Version returns the number of commits so far.
func (s *Store[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Merge applies a sparse patch and commits the result.
//
// # Description
//
// Every field set in p is written: numbers are clamped into range, and
// values that cannot be repaired (bad colours, non-finite numbers, lists
// outside their cardinality) are rejected. A rejected field keeps its
// previous value; the rejection is logged at Warn and counted, and the
// rest of the patch still commits. Fields absent from p are untouched.
//
// # Outputs
//
//   - T: the committed record (or the current one if nothing was accepted
//     or the store is closed).
func (s *Store[T]) Merge(p dna.PatchFor[T]) T {
	s.mu.Lock()
	if s.closed {
		rec := s.rec.Clone()
		s.mu.Unlock()
		s.logger.Warn("store: merge after close ignored")
		return rec
	}
	next, rejected := p.ApplyTo(s.rec)
	s.reportRejected(rejected)

	accepted := dna.Accepted(p, rejected)
	if len(accepted) == 0 {
		rec := s.rec.Clone()
		s.mu.Unlock()
		return rec
	}
	rec, notify := s.commitLocked(next, opMerge, accepted)
	s.mu.Unlock()

	notify()
	return rec
}

// Replace swaps in a whole record after normalising it.
//
// # Description
//
// Numeric fields are clamped and fixed fields reset by Schema.Normalize;
// anything Normalize cannot repair (bad colours, list cardinality) makes
// Replace fail and leaves the store unchanged. Every field counts as edited,
// so outstanding pulses will not restore over the new record.
func (s *Store[T]) Replace(rec T) (T, error) {
	next := s.schema.Normalize(rec)
	if err := s.schema.Validate(next); err != nil {
		return s.Get(), fmt.Errorf("replace %s: %w", s.schema.Variant(), err)
	}

	s.mu.Lock()
	if s.closed {
		cur := s.rec.Clone()
		s.mu.Unlock()
		return cur, ErrClosed
	}
	names := make([]string, 0, len(s.schema.Fields()))
	for _, f := range s.schema.Fields() {
		names = append(names, f.Name)
	}
	committed, notify := s.commitLocked(next, opReplace, names)
	s.mu.Unlock()

	notify()
	return committed, nil
}

// Nudge adds delta to a numeric field, keeping the result inside
// [lower, upper] intersected with the field's declared range.
//
// # Description
//
// Repeated nudges converge on the bound and stay there. Integer fields are
// rounded. A nudge is an accepted edit even when the bound leaves the value
// unchanged.
//
// # Outputs
//
//   - T: the committed record.
//   - error: ErrUnknownField or ErrNotNumeric for a bad field name, a
//     dna.ValidationError for a non-finite delta, ErrClosed after Close.
func (s *Store[T]) Nudge(field string, delta, lower, upper float64) (T, error) {
	nf, err := s.numeric(field)
	if err != nil {
		return s.Get(), err
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		verr := dna.ValidationError{Variant: s.Variant(), Field: field, Value: delta, Reason: "delta is not a finite number"}
		s.reportRejected([]dna.ValidationError{verr})
		return s.Get(), verr
	}

	lo, hi := lower, upper
	if nf.Spec.Bounded {
		lo = math.Max(lo, nf.Spec.Min)
		hi = math.Min(hi, nf.Spec.Max)
	}

	s.mu.Lock()
	if s.closed {
		cur := s.rec.Clone()
		s.mu.Unlock()
		return cur, ErrClosed
	}
	v := nf.Get(s.rec) + delta
	if lo <= hi {
		v = math.Min(math.Max(v, lo), hi)
	}
	rec, notify := s.commitLocked(nf.With(s.rec, v), opNudge, []string{field})
	s.mu.Unlock()

	notify()
	return rec, nil
}

// Subscribe registers fn to receive every committed record together with
// its version. The returned function removes the subscription.
//
// fn runs outside the store's lock and may call any Store method. Commits
// from different goroutines can be delivered out of order; use the version
// to drop stale records.
func (s *Store[T]) Subscribe(fn func(T, uint64)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close stops every pending pulse timer and drops subscribers. The record
// keeps its current value; later mutations fail with ErrClosed. Close is
// idempotent.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for field, p := range s.pulses {
		if p.timer != nil && p.timer.Stop() {
			s.metrics.RecordPulse(s.Variant().String(), observability.PulseCancelled)
		}
		delete(s.pulses, field)
	}
	clear(s.subs)
}

// =============================================================================
// Internal helpers
// =============================================================================

// numeric resolves an editable numeric field.
func (s *Store[T]) numeric(field string) (dna.NumericField[T], error) {
	spec, ok := s.schema.Field(field)
	if !ok {
		return dna.NumericField[T]{}, fmt.Errorf("%s.%s: %w", s.Variant(), field, ErrUnknownField)
	}
	nf, ok := s.schema.Numeric(field)
	if !ok || !spec.Editable {
		return dna.NumericField[T]{}, fmt.Errorf("%s.%s (%s): %w", s.Variant(), field, spec.Kind, ErrNotNumeric)
	}
	return nf, nil
}

// commitLocked installs next as the current record. The caller holds s.mu
// and must call notify after releasing it.
func (s *Store[T]) commitLocked(next T, op string, fields []string) (T, func()) {
	s.rec = next.Clone()
	s.version++
	for _, f := range fields {
		s.fieldVersion[f]++
	}
	s.metrics.RecordMutation(s.Variant().String(), op)
	s.logger.Debug("store: committed", "op", op, "version", s.version, "fields", fields)

	version := s.version
	subs := make([]func(T, uint64), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	out := s.rec.Clone()
	return out, func() {
		for _, fn := range subs {
			fn(out.Clone(), version)
		}
	}
}

func (s *Store[T]) reportRejected(errs []dna.ValidationError) {
	for _, e := range errs {
		s.logger.Warn("store: rejected edit", "field", e.Field, "value", e.Value, "reason", e.Reason)
		s.metrics.RecordRejectedEdit(s.Variant().String(), e.Field)
	}
}

// update runs a record-level edit that may fail as a whole, such as a
// colour-list operation. fn must not retain its argument.
func (s *Store[T]) update(op string, fields []string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	if s.closed {
		cur := s.rec.Clone()
		s.mu.Unlock()
		return cur, ErrClosed
	}
	next, err := fn(s.rec.Clone())
	if err != nil {
		var verr dna.ValidationError
		if errors.As(err, &verr) {
			s.reportRejected([]dna.ValidationError{verr})
		}
		cur := s.rec.Clone()
		s.mu.Unlock()
		return cur, err
	}
	rec, notify := s.commitLocked(next, op, fields)
	s.mu.Unlock()

	notify()
	return rec, nil
}
