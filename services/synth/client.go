// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package synth turns a text prompt and an optional mood into Flower DNA
// using a generative language-model backend.
//
// # Description
//
// A Client builds the prompt, asks its Generator for a JSON object matching
// FlowerSchema, and decodes the answer strictly. The result is a sparse
// Flower patch holding only the synthesized fields plus the full record
// obtained by applying that patch to the Flower default.
//
// Backends: GeminiGenerator (REST), OpenAIGenerator (go-openai, any
// OpenAI-compatible endpoint) and OllamaGenerator (langchaingo).
//
// # Thread Safety
//
// Client is safe for concurrent use but single-flight: while one call is
// outstanding, others fail immediately with ErrBusy.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
)

var tracer = otel.Tracer("floragen.synth")

// Generator is a backend able to return a JSON object for a schema.
type Generator interface {
	// Name is the backend label used in logs, metrics and errors.
	Name() string

	// Model is the backend model identifier.
	Model() string

	// GenerateJSON sends prompt and returns the raw JSON text. Any error is
	// treated as a transport failure.
	GenerateJSON(ctx context.Context, prompt string, schema OutputSchema) (string, error)
}

// Request is one synthesis request.
//
// # Fields
//
//   - ID: tag used to discard stale results. Generated when empty.
//   - Prompt: free-text inspiration; may be empty.
//   - Mood: optional, one of Moods.
type Request struct {
	ID     string
	Prompt string
	Mood   Mood
}

// Result is a successful synthesis.
//
// # Fields
//
//   - Prompt: the user's inspiration text as given.
//   - Instruction: the full prompt sent to the backend.
//   - Patch: only the synthesized fields. Merging it into a live Flower
//     leaves stemBend and the leaf parameters untouched.
//   - DNA: Patch applied to the Flower default; a complete valid record.
type Result struct {
	RequestID   string
	Mood        Mood
	Prompt      string
	Instruction string
	Backend     string
	Patch       dna.FlowerPatch
	DNA         dna.FlowerDNA
	Duration    time.Duration
}

// PromptPolicy screens inspiration text before it is sent to a backend.
type PromptPolicy interface {
	Review(prompt string) error
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records request counts and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout bounds each backend call. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithPromptPolicy rejects prompts the policy refuses, before any backend
// call, as ErrRequest.
func WithPromptPolicy(p PromptPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// Client is the synthesis entry point.
type Client struct {
	gen     Generator
	schema  OutputSchema
	metrics *observability.Metrics
	policy  PromptPolicy
	timeout time.Duration
	busy    atomic.Bool
}

// NewClient wraps gen.
func NewClient(gen Generator, opts ...Option) *Client {
	c := &Client{gen: gen, schema: FlowerSchema()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the generator name.
func (c *Client) Backend() string {
	return c.gen.Name()
}

// Busy reports whether a call is outstanding.
func (c *Client) Busy() bool {
	return c.busy.Load()
}

// Synthesize generates Flower DNA for req.
//
// # Description
//
// Validates the mood, and screens the prompt when a PromptPolicy is set,
// before any outbound call, then claims the busy flag.
// The flag is cleared when the call settles, successfully or not. No other
// state is touched: the caller decides whether and where to apply the
// result.
//
// # Outputs
//
//   - *Result: on success.
//   - error: always a *SynthesisError. Use errors.Is with ErrTransport,
//     ErrSchema, ErrBusy or ErrRequest.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Result, error) {
	backend := c.gen.Name()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if !req.Mood.IsValid() {
		c.metrics.RecordSynthesis(backend, observability.StatusRejected, 0)
		return nil, newError(KindRequest, req.ID, backend, fmt.Errorf("unknown mood %q", string(req.Mood)))
	}
	if c.policy != nil {
		if err := c.policy.Review(req.Prompt); err != nil {
			c.metrics.RecordSynthesis(backend, observability.StatusRejected, 0)
			return nil, newError(KindRequest, req.ID, backend, err)
		}
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.RecordSynthesis(backend, observability.StatusBusy, 0)
		return nil, newError(KindBusy, req.ID, backend, nil)
	}
	defer c.busy.Store(false)

	c.metrics.SynthesisStarted()
	defer c.metrics.SynthesisEnded()

	ctx, span := tracer.Start(ctx, "synth.Synthesize",
		trace.WithAttributes(
			attribute.String("synth.request_id", req.ID),
			attribute.String("synth.backend", backend),
			attribute.String("synth.model", c.gen.Model()),
			attribute.String("synth.mood", string(req.Mood)),
			attribute.Bool("synth.has_prompt", req.Prompt != ""),
		),
	)
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	instruction := BuildPrompt(req.Prompt, req.Mood)
	start := time.Now()
	raw, err := c.gen.GenerateJSON(ctx, instruction, c.schema)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.metrics.RecordSynthesis(backend, observability.StatusTransport, elapsed.Seconds())
		slog.Warn("synth: backend call failed", "request_id", req.ID, "backend", backend, "error", err)
		return nil, newError(KindTransport, req.ID, backend, err)
	}

	patch, err := DecodeFlower(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema")
		c.metrics.RecordSynthesis(backend, observability.StatusSchema, elapsed.Seconds())
		slog.Warn("synth: backend returned invalid DNA", "request_id", req.ID, "backend", backend, "error", err)
		return nil, newError(KindSchema, req.ID, backend, err)
	}

	rec, rejected := patch.ApplyTo(dna.DefaultFlower())
	if len(rejected) > 0 {
		err := dna.JoinValidation(rejected)
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema")
		c.metrics.RecordSynthesis(backend, observability.StatusSchema, elapsed.Seconds())
		return nil, newError(KindSchema, req.ID, backend, err)
	}

	span.SetAttributes(attribute.String("synth.flower_name", rec.Name))
	span.SetStatus(codes.Ok, "")
	c.metrics.RecordSynthesis(backend, observability.StatusSuccess, elapsed.Seconds())
	slog.Info("synth: flower generated", "request_id", req.ID, "backend", backend,
		"name", rec.Name, "duration_ms", elapsed.Milliseconds())

	return &Result{
		RequestID:   req.ID,
		Mood:        req.Mood,
		Prompt:      req.Prompt,
		Instruction: instruction,
		Backend:     backend,
		Patch:       patch,
		DNA:         rec,
		Duration:    elapsed,
	}, nil
}

// IsRetryable reports whether err is worth retrying: transport failures
// (including timeouts) and schema failures, since a new generation may
// succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrSchema)
}
