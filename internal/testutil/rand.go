// Package testutil provides deterministic helpers shared by tests:
// fixed random sequences for measurement draws and tolerance assertions
// over amplitude vectors and operator matrices.
package testutil

import (
	"math/rand/v2"
	"sync"
)

// SequenceRand returns predetermined uniform draws for measurements.
//
// Measurement consumes exactly one draw per execution, so a test can
// script outcomes: a draw below the branch probability selects outcome
// 0, a draw at or above it selects 1.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceRand struct {
	mu     sync.Mutex
	values []float64
	idx    int
}

// NewSequenceRand creates a sequence that returns values in order.
// Draw panics once all values are consumed: a test drawing more than it
// declared is misconfigured.
func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

// Draw returns the next predetermined value.
func (s *SequenceRand) Draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.values) {
		panic("SequenceRand: all values exhausted")
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

// Remaining reports how many scripted values are left.
func (s *SequenceRand) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.idx
}

// SeededRand returns a draw function backed by a fixed-seed PCG source.
// Unlike SequenceRand it never exhausts; use it for trial loops where
// only reproducibility matters, not exact outcomes.
func SeededRand(seed uint64) func() float64 {
	r := rand.New(rand.NewPCG(seed, seed))
	return r.Float64
}
