package ops

import (
	"fmt"
	"slices"

	"github.com/qopher/qopher/state"
)

// Display computes a function of the current state and stores the
// result in classical memory, leaving the quantum state untouched. It
// is a pure side channel: order-sensitive relative to the operations
// around it, invisible to them.
//
// Concrete displays are built through the New*Display constructors,
// which fix the snapshot functions; the struct itself carries no
// behavior beyond dispatch.
type Display struct {
	name        string
	addr        state.Addr
	qubits      []state.Qubit
	fromKet     func(*state.Ket) (any, error)
	fromDensity func(*state.Density) (any, error)
}

// NewStateDisplay stores a copy of the state's raw representation: the
// amplitude vector for a pure state, the density matrix for a mixed one.
func NewStateDisplay(addr state.Addr) *Display {
	return &Display{
		name: "StateDisplay",
		addr: addr,
		fromKet: func(k *state.Ket) (any, error) {
			return slices.Clone(k.Amplitudes()), nil
		},
		fromDensity: func(d *state.Density) (any, error) {
			return d.Matrix().Clone(), nil
		},
	}
}

// NewProbabilityDisplay stores the basis-state probability vector.
func NewProbabilityDisplay(addr state.Addr) *Display {
	return &Display{
		name: "ProbabilityDisplay",
		addr: addr,
		fromKet: func(k *state.Ket) (any, error) {
			return k.Probabilities(), nil
		},
		fromDensity: func(d *state.Density) (any, error) {
			return d.Probabilities(), nil
		},
	}
}

// NewDensityDisplay stores the reduced density state over the given
// qubits, tracing out the rest.
func NewDensityDisplay(addr state.Addr, qubits ...state.Qubit) *Display {
	reduce := func(d *state.Density) (any, error) {
		return d.Partial(qubits)
	}
	return &Display{
		name:   "DensityDisplay",
		addr:   addr,
		qubits: qubits,
		fromKet: func(k *state.Ket) (any, error) {
			return reduce(k.AsDensity())
		},
		fromDensity: reduce,
	}
}

func (d *Display) Qubits() []state.Qubit { return d.qubits }
func (d *Display) Addrs() []state.Addr   { return []state.Addr{d.addr} }

func (d *Display) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotRepresentable, d.name)
}

func (d *Display) H() (Operation, error) {
	return nil, fmt.Errorf("%w: %s has no adjoint", ErrNotSupported, d.name)
}

func (d *Display) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(d.qubits, qmap)
	if err != nil {
		return nil, err
	}
	addrs, err := mapAddrs([]state.Addr{d.addr}, amap)
	if err != nil {
		return nil, err
	}
	out := *d
	out.qubits = qubits
	out.addr = addrs[0]
	return &out, nil
}

func (d *Display) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(d, qubits)
}

func (d *Display) Run(k *state.Ket) (*state.Ket, error) {
	v, err := d.fromKet(k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return k.Store(state.Memory{d.addr: v}), nil
}

func (d *Display) Evolve(den *state.Density) (*state.Density, error) {
	v, err := d.fromDensity(den)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return den.Store(state.Memory{d.addr: v}), nil
}

func (d *Display) String() string {
	if len(d.qubits) == 0 {
		return fmt.Sprintf("%s %s", d.name, d.addr)
	}
	return fmt.Sprintf("%s %s %s", d.name, d.addr, joinQubits(d.qubits))
}
