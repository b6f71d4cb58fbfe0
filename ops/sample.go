package ops

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/qopher/qopher/state"
)

// Sampler executes a circuit repeatedly from the zero state and tallies
// measurement outcomes. Every measurement in the circuit is rewired to
// the sampler's draw source, so a fixed source makes the whole sampling
// run reproducible.
type Sampler struct {
	circ  *Circuit
	rand  func() float64
	addrs []state.Addr
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// SampleWithRand replaces the uniform draw source shared by all
// measurements (default math/rand/v2).
func SampleWithRand(fn func() float64) SamplerOption {
	return func(s *Sampler) { s.rand = fn }
}

// NewSampler builds a sampler over c.
func NewSampler(c *Circuit, opts ...SamplerOption) (*Sampler, error) {
	s := &Sampler{rand: rand.Float64}
	for _, opt := range opts {
		opt(s)
	}
	rewired, err := RewireMeasurements(c, s.rand)
	if err != nil {
		return nil, err
	}
	s.circ = rewired
	s.addrs = MeasuredAddrs(c)
	return s, nil
}

// RewireMeasurements returns a copy of c in which every measurement,
// including those nested in moments and conditionals, draws from fn.
// The source circuit is not modified.
func RewireMeasurements(c *Circuit, fn func() float64) (*Circuit, error) {
	rewired, err := withRand(c, fn)
	if err != nil {
		return nil, fmt.Errorf("ops: rewiring measurements: %w", err)
	}
	return rewired.(*Circuit), nil
}

// Addrs returns the measurement addresses in canonical order, one per
// character of an outcome label.
func (s *Sampler) Addrs() []state.Addr { return s.addrs }

// Once executes a single trial from the zero state.
func (s *Sampler) Once() (*state.Ket, error) {
	return s.circ.Run(state.ZeroKet(s.circ.Qubits()...))
}

// Sample executes trials runs and returns outcome counts plus the final
// state of the last trial.
func (s *Sampler) Sample(trials int) (map[string]int, *state.Ket, error) {
	counts := make(map[string]int)
	var last *state.Ket
	for i := 0; i < trials; i++ {
		final, err := s.Once()
		if err != nil {
			return nil, nil, fmt.Errorf("trial %d: %w", i, err)
		}
		counts[OutcomeLabel(final.Memory(), s.addrs)]++
		last = final
	}
	return counts, last, nil
}

// OutcomeLabel renders one trial's measurement outcomes as a bitstring
// over addrs. An address the trial never wrote (a measurement inside an
// untaken conditional) renders as '?'.
func OutcomeLabel(mem state.Memory, addrs []state.Addr) string {
	var b strings.Builder
	for _, a := range addrs {
		v, ok := mem.Value(a)
		if !ok {
			b.WriteByte('?')
			continue
		}
		switch x := v.(type) {
		case int:
			fmt.Fprintf(&b, "%d", x)
		case bool:
			if x {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

// withRand rewrites every measurement in the operation tree to draw
// from fn.
func withRand(op Operation, fn func() float64) (Operation, error) {
	switch v := op.(type) {
	case *Measure:
		return NewMeasure(v.qubit, MeasureTo(v.addr), MeasureWithRand(fn)), nil
	case *Circuit:
		elems, err := childrenWithRand(v.Elements(), fn)
		if err != nil {
			return nil, err
		}
		return NewCircuit(elems, WithQubits(v.Qubits()...), WithAddrs(v.Addrs()...))
	case *Moment:
		elems, err := childrenWithRand(v.Elements(), fn)
		if err != nil {
			return nil, err
		}
		return NewMoment(elems, WithQubits(v.Qubits()...), WithAddrs(v.Addrs()...))
	case *If:
		inner, err := withRand(v.op, fn)
		if err != nil {
			return nil, err
		}
		return NewIf(inner, v.addr, IfExpecting(v.expected)), nil
	default:
		return op, nil
	}
}

func childrenWithRand(elems []Operation, fn func() float64) ([]Operation, error) {
	out := make([]Operation, len(elems))
	for i, el := range elems {
		rewired, err := withRand(el, fn)
		if err != nil {
			return nil, err
		}
		out[i] = rewired
	}
	return out, nil
}

// MeasuredAddrs collects the addresses written by measurements in the
// operation tree, in canonical order.
func MeasuredAddrs(op Operation) []state.Addr {
	seen := map[state.Addr]struct{}{}
	var collect func(Operation)
	collect = func(op Operation) {
		switch v := op.(type) {
		case *Measure:
			seen[v.addr] = struct{}{}
		case *Circuit:
			for _, el := range v.Elements() {
				collect(el)
			}
		case *Moment:
			for _, el := range v.Elements() {
				collect(el)
			}
		case *If:
			collect(v.op)
		}
	}
	collect(op)

	addrs := make([]state.Addr, 0, len(seen))
	for a := range seen {
		addrs = append(addrs, a)
	}
	state.SortAddrs(addrs)
	return addrs
}
