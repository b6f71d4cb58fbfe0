package ops

import (
	"fmt"

	"github.com/qopher/qopher/state"
)

// Moment is a circuit whose children act on pairwise-disjoint qubits,
// representing operations applied at the same moment of time. The
// disjointness invariant is checked once, at construction.
type Moment struct {
	circ *Circuit
}

// NewMoment builds a moment from child operations. Construction fails
// with ErrNonDisjointMoment if any qubit appears in more than one child.
func NewMoment(elems []Operation, opts ...CircuitOption) (*Moment, error) {
	seen := map[state.Qubit]struct{}{}
	for _, elem := range elems {
		for _, q := range elem.Qubits() {
			if _, dup := seen[q]; dup {
				return nil, fmt.Errorf("%w: qubit %q", ErrNonDisjointMoment, q)
			}
			seen[q] = struct{}{}
		}
	}
	circ, err := NewCircuit(elems, opts...)
	if err != nil {
		return nil, err
	}
	return &Moment{circ: circ}, nil
}

// Elements returns the child operations in declaration order.
func (m *Moment) Elements() []Operation { return m.circ.Elements() }

// Size returns the number of child operations.
func (m *Moment) Size() int { return m.circ.Size() }

func (m *Moment) Qubits() []state.Qubit { return m.circ.Qubits() }
func (m *Moment) Addrs() []state.Addr   { return m.circ.Addrs() }

func (m *Moment) AsGate() (Gate, error) { return m.circ.AsGate() }

func (m *Moment) H() (Operation, error) {
	h, err := m.circ.H()
	if err != nil {
		return nil, err
	}
	return &Moment{circ: h.(*Circuit)}, nil
}

func (m *Moment) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	r, err := m.circ.Relabel(qmap, amap)
	if err != nil {
		return nil, err
	}
	return &Moment{circ: r.(*Circuit)}, nil
}

func (m *Moment) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(m, qubits)
}

func (m *Moment) Run(k *state.Ket) (*state.Ket, error) {
	return m.circ.Run(k)
}

func (m *Moment) Evolve(d *state.Density) (*state.Density, error) {
	return m.circ.Evolve(d)
}

func (m *Moment) String() string {
	return renderComposite("Moment", m.circ.elems)
}
