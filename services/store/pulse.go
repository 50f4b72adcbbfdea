package store

import (
	"math"
	"time"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
)

// pendingPulse is an outstanding restoration of one field.
type pendingPulse struct {
	baseline float64
	// version is the field's version right after the pulse commit. Any
	// other accepted edit of the field moves it.
	version uint64
	timer   Timer
}

// Pulse sets a numeric field to value now and restores it after d.
//
// # Description
//
// The value to restore is captured synchronously, before the peak is
// written. When the timer fires the baseline is written back only if
// nothing else edited the field in the meantime; an intervening edit wins
// and the restoration is skipped.
//
// Pulsing a field that is already pulsing keeps the first pulse's baseline
// and restarts the window, so rapid repeated pulses settle back to the
// pre-pulse value instead of ratcheting upwards.
//
// # Inputs
//
//   - field: JSON name of an editable numeric field.
//   - value: peak value, clamped into the field's range.
//   - d: how long the peak lasts.
//
// # Outputs
//
//   - T: the committed record carrying the peak value.
//   - error: ErrUnknownField, ErrNotNumeric, a dna.ValidationError for a
//     non-finite value, or ErrClosed.
func (s *Store[T]) Pulse(field string, value float64, d time.Duration) (T, error) {
	nf, err := s.numeric(field)
	if err != nil {
		return s.Get(), err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		verr := dna.ValidationError{Variant: s.Variant(), Field: field, Value: value, Reason: "not a finite number"}
		s.reportRejected([]dna.ValidationError{verr})
		return s.Get(), verr
	}

	s.mu.Lock()
	if s.closed {
		cur := s.rec.Clone()
		s.mu.Unlock()
		return cur, ErrClosed
	}

	baseline := nf.Get(s.rec)
	if prev, ok := s.pulses[field]; ok {
		prev.timer.Stop()
		if s.fieldVersion[field] == prev.version {
			baseline = prev.baseline
		}
	}

	rec, notify := s.commitLocked(nf.With(s.rec, value), opPulse, []string{field})

	p := &pendingPulse{baseline: baseline, version: s.fieldVersion[field]}
	s.pulses[field] = p
	p.timer = s.clock.AfterFunc(d, func() { s.restore(field, p) })
	s.metrics.RecordPulse(s.Variant().String(), observability.PulseStarted)
	s.mu.Unlock()

	s.logger.Debug("store: pulse started", "field", field, "peak", nf.Get(rec), "baseline", baseline, "duration", d)
	notify()
	return rec, nil
}

// restore runs when a pulse window ends.
func (s *Store[T]) restore(field string, p *pendingPulse) {
	s.mu.Lock()
	if s.closed || s.pulses[field] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pulses, field)

	if s.fieldVersion[field] != p.version {
		s.metrics.RecordPulse(s.Variant().String(), observability.PulseSkipped)
		s.mu.Unlock()
		s.logger.Debug("store: pulse restore skipped after intervening edit", "field", field)
		return
	}

	nf, _ := s.schema.Numeric(field)
	_, notify := s.commitLocked(nf.With(s.rec, p.baseline), opPulseRestore, []string{field})
	s.metrics.RecordPulse(s.Variant().String(), observability.PulseRestored)
	s.mu.Unlock()

	notify()
}

// Pulsing reports whether field has a restoration pending.
func (s *Store[T]) Pulsing(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pulses[field]
	return ok
}
