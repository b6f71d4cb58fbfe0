package ops

import (
	"fmt"

	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

// resetMap collapses a single qubit to |0> regardless of its prior
// amplitudes. It is rank-deficient and not trace preserving, so the
// state must be renormalized after application.
var resetMap = tensor.FromRows([][]complex128{
	{1, 1},
	{0, 0},
})

// Reset forces qubits into the zero state. With no qubits given it
// resets every qubit of the state it is applied to. Reset is neither a
// gate nor a channel; it only supports Run.
type Reset struct {
	qubits []state.Qubit
}

// NewReset builds a reset of the given qubits. An empty list means all
// qubits of the running state.
func NewReset(qubits ...state.Qubit) (*Reset, error) {
	if err := checkUniqueQubits(qubits); err != nil {
		return nil, err
	}
	return &Reset{qubits: qubits}, nil
}

func (r *Reset) Qubits() []state.Qubit { return r.qubits }
func (r *Reset) Addrs() []state.Addr   { return nil }

func (r *Reset) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: Reset", ErrNotRepresentable)
}

func (r *Reset) H() (Operation, error) {
	return nil, fmt.Errorf("%w: Reset has no adjoint", ErrNotSupported)
}

func (r *Reset) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(r.qubits, qmap)
	if err != nil {
		return nil, err
	}
	return &Reset{qubits: qubits}, nil
}

func (r *Reset) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(r, qubits)
}

func (r *Reset) Run(k *state.Ket) (*state.Ket, error) {
	targets := r.qubits
	if len(targets) == 0 {
		targets = k.Qubits()
	}
	amps := k.Amplitudes()
	n := k.QubitCount()
	for _, q := range targets {
		pos, err := qubitPositions([]state.Qubit{q}, k.Qubits())
		if err != nil {
			return nil, err
		}
		amps = tensor.MulVec(resetMap, pos, n, amps)
	}
	out := k.WithAmplitudes(amps)
	if out.Norm() < Atol {
		return nil, fmt.Errorf("%w: Reset %s", ErrZeroNorm, joinQubits(targets))
	}
	return out.Normalize(), nil
}

func (r *Reset) Evolve(d *state.Density) (*state.Density, error) {
	return nil, fmt.Errorf("%w: Reset is not a channel", ErrNotImplemented)
}

func (r *Reset) String() string {
	if len(r.qubits) == 0 {
		return "Reset"
	}
	return "Reset " + joinQubits(r.qubits)
}

// Initialize replaces the running state with a captured ket, permuted to
// the running state's qubit order. Classical memory carries over.
type Initialize struct {
	ket *state.Ket
}

// NewInitialize builds an initialization to the given ket.
func NewInitialize(k *state.Ket) *Initialize {
	return &Initialize{ket: k}
}

// Ket returns the captured state.
func (in *Initialize) Ket() *state.Ket { return in.ket }

func (in *Initialize) Qubits() []state.Qubit { return in.ket.Qubits() }
func (in *Initialize) Addrs() []state.Addr   { return nil }

func (in *Initialize) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: Initialize", ErrNotRepresentable)
}

func (in *Initialize) H() (Operation, error) {
	return nil, fmt.Errorf("%w: Initialize has no adjoint", ErrNotSupported)
}

func (in *Initialize) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(in.ket.Qubits(), qmap)
	if err != nil {
		return nil, err
	}
	k, err := state.NewKet(in.ket.Amplitudes(), qubits, in.ket.Memory())
	if err != nil {
		return nil, err
	}
	return &Initialize{ket: k}, nil
}

func (in *Initialize) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(in, qubits)
}

func (in *Initialize) Run(k *state.Ket) (*state.Ket, error) {
	next, err := in.ket.Permute(k.Qubits())
	if err != nil {
		return nil, err
	}
	return next.Store(k.Memory()), nil
}

func (in *Initialize) Evolve(d *state.Density) (*state.Density, error) {
	next, err := in.ket.Permute(d.Qubits())
	if err != nil {
		return nil, err
	}
	return next.AsDensity().Store(d.Memory()), nil
}

func (in *Initialize) String() string {
	return "Initialize " + joinQubits(in.ket.Qubits())
}

// Projection projects onto the subspace spanned by a set of kets. All
// kets must share one qubit tuple. The projector is self-adjoint but
// rank deficient, so Projection is not representable as a gate.
type Projection struct {
	kets []*state.Ket
}

// NewProjection builds a projection onto the span of the given kets.
func NewProjection(kets ...*state.Ket) (*Projection, error) {
	if len(kets) == 0 {
		return nil, fmt.Errorf("ops: projection onto empty span")
	}
	first := kets[0].Qubits()
	for _, k := range kets[1:] {
		if !sameQubits(first, k.Qubits()) {
			return nil, fmt.Errorf("ops: projection kets disagree on qubits")
		}
	}
	return &Projection{kets: kets}, nil
}

func (p *Projection) Qubits() []state.Qubit { return p.kets[0].Qubits() }
func (p *Projection) Addrs() []state.Addr   { return nil }

func (p *Projection) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: Projection", ErrNotRepresentable)
}

// H returns the projection itself: projectors are self-adjoint.
func (p *Projection) H() (Operation, error) { return p, nil }

func (p *Projection) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	kets := make([]*state.Ket, len(p.kets))
	for i, k := range p.kets {
		qubits, err := mapQubits(k.Qubits(), qmap)
		if err != nil {
			return nil, err
		}
		relabeled, err := state.NewKet(k.Amplitudes(), qubits, k.Memory())
		if err != nil {
			return nil, err
		}
		kets[i] = relabeled
	}
	return &Projection{kets: kets}, nil
}

func (p *Projection) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(p, qubits)
}

// Operator builds the projector as a sum of outer products.
func (p *Projection) Operator() tensor.Matrix {
	dim := 1 << len(p.Qubits())
	out := tensor.New(dim)
	for _, k := range p.kets {
		amps := k.Amplitudes()
		for r := 0; r < dim; r++ {
			for c := 0; c < dim; c++ {
				out.Data[r*dim+c] += amps[r] * conj(amps[c])
			}
		}
	}
	return out
}

func (p *Projection) Run(k *state.Ket) (*state.Ket, error) {
	pos, err := qubitPositions(p.Qubits(), k.Qubits())
	if err != nil {
		return nil, err
	}
	amps := tensor.MulVec(p.Operator(), pos, k.QubitCount(), k.Amplitudes())
	return k.WithAmplitudes(amps), nil
}

func (p *Projection) Evolve(d *state.Density) (*state.Density, error) {
	pos, err := qubitPositions(p.Qubits(), d.Qubits())
	if err != nil {
		return nil, err
	}
	op := p.Operator()
	mat := tensor.MulMat(op, pos, d.Matrix())
	mat = tensor.MulMatCols(tensor.Conj(op), pos, mat)
	return d.WithMatrix(mat), nil
}

func (p *Projection) String() string {
	return fmt.Sprintf("Projection(%d) %s", len(p.kets), joinQubits(p.Qubits()))
}

func conj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}
