package ops

import (
	"fmt"
	"math/rand/v2"

	"github.com/qopher/qopher/state"
)

// Measure measures one qubit in the computational basis and stores the
// outcome (0 or 1) at a classical address. The address defaults to the
// measured qubit's own label.
//
// Measure is the only stochastic operation: it consumes exactly one
// uniform draw per execution. The draw source is injectable for
// deterministic tests; seeding policy is the caller's concern.
type Measure struct {
	qubit state.Qubit
	addr  state.Addr
	rand  func() float64
}

// MeasureOption configures a measurement.
type MeasureOption func(*Measure)

// MeasureTo stores the outcome at the given address instead of the
// qubit's own label.
func MeasureTo(addr state.Addr) MeasureOption {
	return func(m *Measure) { m.addr = addr }
}

// MeasureWithRand replaces the uniform draw source.
func MeasureWithRand(fn func() float64) MeasureOption {
	return func(m *Measure) { m.rand = fn }
}

// NewMeasure builds a measurement of qubit q.
func NewMeasure(q state.Qubit, opts ...MeasureOption) *Measure {
	m := &Measure{qubit: q, addr: state.AddrOf(q), rand: rand.Float64}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Measure) Qubits() []state.Qubit { return []state.Qubit{m.qubit} }
func (m *Measure) Addrs() []state.Addr   { return []state.Addr{m.addr} }

// Addr returns the classical address the outcome is stored at.
func (m *Measure) Addr() state.Addr { return m.addr }

func (m *Measure) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: Measure", ErrNotRepresentable)
}

func (m *Measure) H() (Operation, error) {
	return nil, fmt.Errorf("%w: Measure has no adjoint", ErrNotSupported)
}

func (m *Measure) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits([]state.Qubit{m.qubit}, qmap)
	if err != nil {
		return nil, err
	}
	addrs, err := mapAddrs([]state.Addr{m.addr}, amap)
	if err != nil {
		return nil, err
	}
	return &Measure{qubit: qubits[0], addr: addrs[0], rand: m.rand}, nil
}

func (m *Measure) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(m, qubits)
}

// Run projects onto the zero subspace to obtain the probability of
// observing 0, draws one uniform sample, normalizes the branch actually
// taken, and stores the outcome.
func (m *Measure) Run(k *state.Ket) (*state.Ket, error) {
	zero, err := Project0(m.qubit).Run(k)
	if err != nil {
		return nil, err
	}
	probZero := zero.Norm()

	if m.rand() < probZero {
		k = zero.Normalize()
		return k.Store(state.Memory{m.addr: 0}), nil
	}
	one, err := Project1(m.qubit).Run(k)
	if err != nil {
		return nil, err
	}
	return one.Normalize().Store(state.Memory{m.addr: 1}), nil
}

// Evolve mirrors Run at the channel level, conjugating the density state
// by the zero and one projectors.
func (m *Measure) Evolve(d *state.Density) (*state.Density, error) {
	zero, err := Project0(m.qubit).Evolve(d)
	if err != nil {
		return nil, err
	}
	probZero := zero.Norm()

	if m.rand() < probZero {
		return zero.Normalize().Store(state.Memory{m.addr: 0}), nil
	}
	one, err := Project1(m.qubit).Evolve(d)
	if err != nil {
		return nil, err
	}
	return one.Normalize().Store(state.Memory{m.addr: 1}), nil
}

func (m *Measure) String() string {
	if m.addr != state.AddrOf(m.qubit) {
		return fmt.Sprintf("Measure %s %s", m.qubit, m.addr)
	}
	return fmt.Sprintf("Measure %s", m.qubit)
}
