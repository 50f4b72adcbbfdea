// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for FlowerGenTool.
//
// # Description
//
// Metrics cover the two places where work happens:
//   - Synthesis calls (by backend and outcome, latency, in-flight gauge)
//   - DNA store mutations (merges, nudges, pulses, rejected edits)
//   - Gallery operations
//
// # Nil Safety
//
// Every Record* method is a no-op on a nil *Metrics, so components accept an
// optional metrics handle without guarding each call.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "floragen"

const (
	synthSubsystem   = "synthesis"
	storeSubsystem   = "store"
	gallerySubsystem = "gallery"
)

// Metrics holds all Prometheus collectors.
//
// # Fields
//
//   - SynthesisRequestsTotal: synthesis calls by backend and status
//   - SynthesisDurationSeconds: backend latency by backend
//   - SynthesisInFlight: 1 while a synthesis call is outstanding
//   - StoreMutationsTotal: committed mutations by variant and op
//   - RejectedEditsTotal: rejected field edits by variant and field
//   - PulsesTotal: pulse lifecycle events by variant and outcome
//   - GalleryOpsTotal: gallery operations by op and status
//   - GalleryRewrittenFilesTotal: value log files rewritten by compaction
type Metrics struct {
	SynthesisRequestsTotal     *prometheus.CounterVec
	SynthesisDurationSeconds   *prometheus.HistogramVec
	SynthesisInFlight          prometheus.Gauge
	StoreMutationsTotal        *prometheus.CounterVec
	RejectedEditsTotal         *prometheus.CounterVec
	PulsesTotal                *prometheus.CounterVec
	GalleryOpsTotal            *prometheus.CounterVec
	GalleryRewrittenFilesTotal prometheus.Counter
}

// NewMetrics creates and registers all collectors on reg.
//
// # Inputs
//
//   - reg: Registerer to use. Pass prometheus.NewRegistry() in tests so
//     metrics stay isolated; the CLI uses its own registry as well.
//
// # Limitations
//
//   - Panics if the same registry is used twice (duplicate registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SynthesisRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: synthSubsystem,
				Name:      "requests_total",
				Help:      "Total synthesis requests by backend and status",
			},
			[]string{"backend", "status"},
		),

		SynthesisDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: synthSubsystem,
				Name:      "duration_seconds",
				Help:      "Synthesis backend latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"backend"},
		),

		SynthesisInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: synthSubsystem,
				Name:      "in_flight",
				Help:      "Synthesis calls currently outstanding",
			},
		),

		StoreMutationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "mutations_total",
				Help:      "Committed DNA mutations by variant and operation",
			},
			[]string{"variant", "op"},
		),

		RejectedEditsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "rejected_edits_total",
				Help:      "Field edits rejected by validation, by variant and field",
			},
			[]string{"variant", "field"},
		),

		PulsesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "pulses_total",
				Help:      "Pulse events by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),

		GalleryOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gallerySubsystem,
				Name:      "ops_total",
				Help:      "Gallery operations by op and status",
			},
			[]string{"op", "status"},
		),

		GalleryRewrittenFilesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gallerySubsystem,
				Name:      "rewritten_files_total",
				Help:      "Value log files rewritten by gallery compaction",
			},
		),
	}
}

// =============================================================================
// Label Values
// =============================================================================

// Status labels for request counters.
const (
	StatusSuccess   = "success"
	StatusTransport = "transport_error"
	StatusSchema    = "schema_error"
	StatusBusy      = "busy"
	StatusRejected  = "rejected"
	StatusError     = "error"
)

// PulseOutcome labels pulse lifecycle events.
type PulseOutcome string

const (
	// PulseStarted is recorded when a pulse sets its peak value.
	PulseStarted PulseOutcome = "started"
	// PulseRestored is recorded when the baseline value is written back.
	PulseRestored PulseOutcome = "restored"
	// PulseSkipped is recorded when an intervening edit cancels the restore.
	PulseSkipped PulseOutcome = "skipped"
	// PulseCancelled is recorded when the store closes with a pulse pending.
	PulseCancelled PulseOutcome = "cancelled"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordSynthesis records a finished synthesis call.
//
// # Inputs
//
//   - backend: Backend name (gemini, openai, ollama).
//   - status: One of the Status* constants.
//   - seconds: Backend latency. Ignored when status is StatusBusy or
//     StatusRejected, since no backend call was made.
func (m *Metrics) RecordSynthesis(backend, status string, seconds float64) {
	if m == nil {
		return
	}
	m.SynthesisRequestsTotal.WithLabelValues(backend, status).Inc()
	if status != StatusBusy && status != StatusRejected {
		m.SynthesisDurationSeconds.WithLabelValues(backend).Observe(seconds)
	}
}

// SynthesisStarted increments the in-flight gauge.
func (m *Metrics) SynthesisStarted() {
	if m == nil {
		return
	}
	m.SynthesisInFlight.Inc()
}

// SynthesisEnded decrements the in-flight gauge.
func (m *Metrics) SynthesisEnded() {
	if m == nil {
		return
	}
	m.SynthesisInFlight.Dec()
}

// RecordMutation records a committed store mutation.
func (m *Metrics) RecordMutation(variant, op string) {
	if m == nil {
		return
	}
	m.StoreMutationsTotal.WithLabelValues(variant, op).Inc()
}

// RecordRejectedEdit records a field edit that failed validation.
func (m *Metrics) RecordRejectedEdit(variant, field string) {
	if m == nil {
		return
	}
	m.RejectedEditsTotal.WithLabelValues(variant, field).Inc()
}

// RecordPulse records a pulse lifecycle event.
func (m *Metrics) RecordPulse(variant string, outcome PulseOutcome) {
	if m == nil {
		return
	}
	m.PulsesTotal.WithLabelValues(variant, string(outcome)).Inc()
}

// RecordGalleryOp records a gallery operation.
func (m *Metrics) RecordGalleryOp(op string, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.GalleryOpsTotal.WithLabelValues(op, status).Inc()
}

// RecordGalleryCompaction records a compaction pass as a "compact" gallery
// operation and adds the rewritten files.
func (m *Metrics) RecordGalleryCompaction(rewrites int, err error) {
	if m == nil {
		return
	}
	m.RecordGalleryOp("compact", err)
	m.GalleryRewrittenFilesTotal.Add(float64(rewrites))
}
