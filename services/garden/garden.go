// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package garden dispatches edits, commands and synthesis results to the
// store of the right organism variant.
//
// # Description
//
// A Garden owns one store per variant and remembers which variant is on
// display. Control edits go to the active variant only; synthesis results
// always go to the Flower store and only if they answer the request the
// garden is still waiting for.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package garden

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/store"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

var (
	// ErrVariantMismatch is returned when a patch targets a variant other
	// than the active one.
	ErrVariantMismatch = errors.New("patch variant does not match active variant")

	// ErrStale is returned when a synthesis result is not the one the
	// garden is waiting for. The result is discarded.
	ErrStale = errors.New("stale synthesis result")

	// ErrNoSynthesizer is returned by Regenerate when the garden was built
	// without a synthesis client.
	ErrNoSynthesizer = errors.New("no synthesis backend configured")
)

// Synthesizer is the part of synth.Client the garden needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synth.Request) (*synth.Result, error)
}

// Config holds the interaction constants.
//
// # Fields
//
//   - NudgeStep: scale change per arrow key. Default 0.05.
//   - ScaleMin, ScaleMax: keyboard nudge range for Flower scale. Default [0.2, 2].
//   - PulseBoost: glow added by a petal click. Default 0.2.
//   - PulseCeiling: highest glow a petal click reaches. Default 3.
//   - PulseDuration: how long the glow lasts. Default 200ms.
type Config struct {
	NudgeStep     float64
	ScaleMin      float64
	ScaleMax      float64
	PulseBoost    float64
	PulseCeiling  float64
	PulseDuration time.Duration
}

// DefaultConfig returns the standard interaction constants.
func DefaultConfig() Config {
	return Config{
		NudgeStep:     0.05,
		ScaleMin:      0.2,
		ScaleMax:      2,
		PulseBoost:    0.2,
		PulseCeiling:  3,
		PulseDuration: 200 * time.Millisecond,
	}
}

// Option configures a Garden.
type Option func(*Garden)

// WithConfig overrides the interaction constants.
func WithConfig(cfg Config) Option {
	return func(g *Garden) { g.cfg = cfg }
}

// WithStoreOptions passes options to every store the garden creates.
func WithStoreOptions(opts ...store.Option) Option {
	return func(g *Garden) { g.storeOpts = append(g.storeOpts, opts...) }
}

// Garden is the variant dispatcher.
type Garden struct {
	flower *store.Store[dna.FlowerDNA]
	decay  *store.Store[dna.DecayDNA]
	sprout *store.Store[dna.SproutDNA]

	synth     Synthesizer
	cfg       Config
	storeOpts []store.Option

	mu          sync.Mutex
	active      dna.Variant
	outstanding string
	inflight    string
	prompt      string
	mood        synth.Mood
}

// New creates a garden showing the Flower. s may be nil when synthesis is
// not available; Regenerate then fails with ErrNoSynthesizer.
func New(s Synthesizer, opts ...Option) *Garden {
	g := &Garden{synth: s, cfg: DefaultConfig(), active: dna.VariantFlower}
	for _, opt := range opts {
		opt(g)
	}
	g.flower = store.New(dna.Flower, g.storeOpts...)
	g.decay = store.New(dna.Decay, g.storeOpts...)
	g.sprout = store.New(dna.Sprout, g.storeOpts...)
	return g
}

// Flower returns the Flower store.
func (g *Garden) Flower() *store.Store[dna.FlowerDNA] { return g.flower }

// Decay returns the Decay store.
func (g *Garden) Decay() *store.Store[dna.DecayDNA] { return g.decay }

// Sprout returns the Sprout store.
func (g *Garden) Sprout() *store.Store[dna.SproutDNA] { return g.sprout }

// Close stops pending pulses in every store.
func (g *Garden) Close() {
	g.flower.Close()
	g.decay.Close()
	g.sprout.Close()
}

// Select makes v the active variant.
func (g *Garden) Select(v dna.Variant) error {
	if !v.IsValid() {
		return fmt.Errorf("select: invalid variant %s", v)
	}
	g.mu.Lock()
	prev := g.active
	g.active = v
	g.mu.Unlock()
	if prev != v {
		slog.Debug("garden: variant selected", "variant", v.String(), "previous", prev.String())
	}
	return nil
}

// Cycle selects the next variant and returns it.
func (g *Garden) Cycle() dna.Variant {
	g.mu.Lock()
	g.active = g.active.Next()
	v := g.active
	g.mu.Unlock()
	return v
}

// Active returns the active variant.
func (g *Garden) Active() dna.Variant {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Current returns the active variant's record.
func (g *Garden) Current() dna.Record {
	return g.Record(g.Active())
}

// Record returns the current record of v.
func (g *Garden) Record(v dna.Variant) dna.Record {
	switch v {
	case dna.VariantDecay:
		return g.decay.Get()
	case dna.VariantSprout:
		return g.sprout.Get()
	default:
		return g.flower.Get()
	}
}

// Replace loads a whole record into its variant's store, e.g. a gallery
// specimen. It does not change the active variant.
func (g *Garden) Replace(rec dna.Record) (dna.Record, error) {
	switch r := rec.(type) {
	case dna.FlowerDNA:
		return g.flower.Replace(r)
	case dna.DecayDNA:
		return g.decay.Replace(r)
	case dna.SproutDNA:
		return g.sprout.Replace(r)
	default:
		return nil, fmt.Errorf("replace: unsupported record %T", rec)
	}
}

// RouteUpdate applies a control edit to the active variant.
//
// # Outputs
//
//   - dna.Record: the committed record.
//   - error: ErrVariantMismatch if p targets another variant; the stores
//     are not touched.
func (g *Garden) RouteUpdate(p dna.Patch) (dna.Record, error) {
	active := g.Active()
	if p.PatchVariant() != active {
		slog.Warn("garden: patch for inactive variant dropped",
			"patch_variant", p.PatchVariant().String(), "active", active.String())
		return g.Record(active), fmt.Errorf("%w: patch is %s, active is %s", ErrVariantMismatch, p.PatchVariant(), active)
	}
	switch pp := p.(type) {
	case dna.FlowerPatch:
		return g.flower.Merge(pp), nil
	case dna.DecayPatch:
		return g.decay.Merge(pp), nil
	case dna.SproutPatch:
		return g.sprout.Merge(pp), nil
	default:
		return g.Record(active), fmt.Errorf("route update: unsupported patch %T", p)
	}
}

// SetInspiration records the prompt and mood used by keyboard regeneration.
func (g *Garden) SetInspiration(prompt string, mood synth.Mood) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompt, g.mood = prompt, mood
}

// Inspiration returns the prompt and mood last set.
func (g *Garden) Inspiration() (string, synth.Mood) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompt, g.mood
}

// Begin tags a new synthesis request and makes it the one the garden waits
// for. Any result for an earlier tag becomes stale.
//
// # Outputs
//
//   - synth.Request: the tagged request to pass to the synthesizer.
//   - error: synth.ErrRequest for an unknown mood, synth.ErrBusy while a
//     call started by Begin has not been finished. In both cases the
//     outstanding tag is left alone.
func (g *Garden) Begin(prompt string, mood synth.Mood) (synth.Request, error) {
	if !mood.IsValid() {
		return synth.Request{}, fmt.Errorf("%w: unknown mood %q", synth.ErrRequest, string(mood))
	}
	req := synth.Request{ID: uuid.NewString(), Prompt: prompt, Mood: mood}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight != "" {
		return synth.Request{}, fmt.Errorf("%w: request %s still in flight", synth.ErrBusy, g.inflight)
	}
	g.inflight = req.ID
	g.outstanding = req.ID
	return req, nil
}

// Finish ends the call started for req. A failed call stops the garden
// waiting for it; a result is routed through RouteSynthesis.
func (g *Garden) Finish(req synth.Request, res *synth.Result, err error) (dna.FlowerDNA, error) {
	g.mu.Lock()
	if g.inflight == req.ID {
		g.inflight = ""
	}
	if err != nil {
		if g.outstanding == req.ID {
			g.outstanding = ""
		}
		g.mu.Unlock()
		return g.flower.Get(), err
	}
	g.mu.Unlock()
	return g.RouteSynthesis(res)
}

// Abandon stops waiting for the outstanding request. Its result, if it
// still arrives, is discarded.
func (g *Garden) Abandon() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outstanding = ""
}

// Pending returns the outstanding request ID, or "".
func (g *Garden) Pending() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outstanding
}

// RouteSynthesis merges a synthesis result into the Flower store.
//
// # Description
//
// Only the synthesized fields are written; stemBend and the leaf parameters
// keep their current values. petalColors and stemColors are replaced by the
// single generated colour, so extra colours are discarded. The active
// variant is irrelevant: synthesis always targets the Flower.
//
// # Outputs
//
//   - dna.FlowerDNA: the committed Flower.
//   - error: ErrStale if res does not answer the outstanding request.
func (g *Garden) RouteSynthesis(res *synth.Result) (dna.FlowerDNA, error) {
	g.mu.Lock()
	if res == nil || res.RequestID == "" || res.RequestID != g.outstanding {
		g.mu.Unlock()
		id := ""
		if res != nil {
			id = res.RequestID
		}
		slog.Info("garden: discarding stale synthesis result", "request_id", id)
		return g.flower.Get(), ErrStale
	}
	if g.inflight == res.RequestID {
		g.inflight = ""
	}
	g.outstanding = ""
	g.mu.Unlock()

	return g.flower.Merge(res.Patch), nil
}

// Regenerate runs a synthesis with the stored inspiration and routes the
// result. On failure the Flower store is unchanged.
func (g *Garden) Regenerate(ctx context.Context) (dna.FlowerDNA, error) {
	prompt, mood := g.Inspiration()
	return g.Generate(ctx, prompt, mood)
}

// Generate runs a synthesis for prompt and mood and routes the result.
func (g *Garden) Generate(ctx context.Context, prompt string, mood synth.Mood) (dna.FlowerDNA, error) {
	if g.synth == nil {
		return g.flower.Get(), ErrNoSynthesizer
	}

	req, err := g.Begin(prompt, mood)
	if err != nil {
		return g.flower.Get(), err
	}
	res, err := g.synth.Synthesize(ctx, req)
	return g.Finish(req, res, err)
}

// PetalClick pulses the Flower's glow: up by PulseBoost, capped at
// PulseCeiling, restored after PulseDuration unless edited meanwhile.
func (g *Garden) PetalClick() (dna.FlowerDNA, error) {
	glow := g.flower.Get().GlowIntensity
	peak := math.Min(glow+g.cfg.PulseBoost, g.cfg.PulseCeiling)
	return g.flower.Pulse("glowIntensity", peak, g.cfg.PulseDuration)
}
