package ops

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

// Atol is the absolute tolerance used for operator comparisons.
const Atol = 1e-8

// Gate is an operation with a dense operator: a square complex matrix of
// dimension 2^n indexed consistently with the gate's qubit ordering.
type Gate interface {
	Operation

	// Operator returns the numeric operator matrix. Gates with unresolved
	// symbolic parameters return ErrSymbolicOperator.
	Operator() (tensor.Matrix, error)

	// Diagonal returns the operator's main diagonal. A convenience; the
	// operator is not checked to actually be diagonal.
	Diagonal() ([]complex128, error)

	// Structure returns the operator's sparsity classification.
	Structure() OperatorStructure

	// Hermitian reports whether the operator is known to be Hermitian.
	Hermitian() bool

	// Pow returns the gate raised to a power. Each structural case has its
	// own continuous-power rule; combinations outside them return
	// ErrNotSupported.
	Pow(t expr.Value) (Gate, error)
}

// DenseGate is a gate defined directly by a dense operator matrix. It is
// the result type of gate composition and permutation, and also represents
// non-unitary projector maps (Project0, Project1).
type DenseGate struct {
	qubits    []state.Qubit
	op        tensor.Matrix
	structure OperatorStructure
}

// NewDenseGate wraps an operator matrix over the given qubits. The matrix
// dimension must be 2^len(qubits) and the qubit tuple must have no
// duplicates.
func NewDenseGate(op tensor.Matrix, qubits ...state.Qubit) (*DenseGate, error) {
	if op.Dim != 1<<len(qubits) {
		return nil, fmt.Errorf("ops: %dx%d operator for %d qubits", op.Dim, op.Dim, len(qubits))
	}
	if err := checkUniqueQubits(qubits); err != nil {
		return nil, err
	}
	return &DenseGate{qubits: slices.Clone(qubits), op: op, structure: Unstructured}, nil
}

// IdentityGate returns the identity gate over the given qubits.
func IdentityGate(qubits ...state.Qubit) *DenseGate {
	g, _ := NewDenseGate(tensor.Identity(1<<len(qubits)), qubits...)
	g.structure = Identity
	return g
}

// Project0 returns the rank-deficient gate |0⟩⟨0| on one qubit. The norm
// of the state it produces is the probability of observing 0.
func Project0(q state.Qubit) *DenseGate {
	g, _ := NewDenseGate(tensor.FromRows([][]complex128{{1, 0}, {0, 0}}), q)
	g.structure = Diagonal
	return g
}

// Project1 returns the rank-deficient gate |1⟩⟨1| on one qubit.
func Project1(q state.Qubit) *DenseGate {
	g, _ := NewDenseGate(tensor.FromRows([][]complex128{{0, 0}, {0, 1}}), q)
	g.structure = Diagonal
	return g
}

func (g *DenseGate) Qubits() []state.Qubit { return g.qubits }
func (g *DenseGate) Addrs() []state.Addr   { return nil }

func (g *DenseGate) AsGate() (Gate, error) { return g, nil }

func (g *DenseGate) Operator() (tensor.Matrix, error) { return g.op, nil }

func (g *DenseGate) Diagonal() ([]complex128, error) {
	return tensor.Diagonal(g.op), nil
}

func (g *DenseGate) Structure() OperatorStructure { return g.structure }

func (g *DenseGate) Hermitian() bool {
	return tensor.EqualTol(g.op, tensor.ConjTranspose(g.op), Atol)
}

func (g *DenseGate) H() (Operation, error) {
	out := &DenseGate{
		qubits:    g.qubits,
		op:        tensor.ConjTranspose(g.op),
		structure: g.structure,
	}
	return out, nil
}

func (g *DenseGate) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(g.qubits, qmap)
	if err != nil {
		return nil, err
	}
	return &DenseGate{qubits: qubits, op: g.op, structure: g.structure}, nil
}

func (g *DenseGate) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(g, qubits)
}

func (g *DenseGate) Run(k *state.Ket) (*state.Ket, error) {
	return runGate(g, k)
}

func (g *DenseGate) Evolve(d *state.Density) (*state.Density, error) {
	return evolveGate(g, d)
}

func (g *DenseGate) Pow(t expr.Value) (Gate, error) {
	op, err := powOperator(g.op, g.structure, t)
	if err != nil {
		return nil, err
	}
	out := &DenseGate{qubits: g.qubits, op: op, structure: g.structure}
	return out, nil
}

// Permute reorders the gate's qubits. The operator is reshaped into a
// rank-2n tensor, the row and column index groups are transposed by the
// same permutation, and the result equals the gate constructed with its
// qubit list in newOrder.
func (g *DenseGate) Permute(newOrder []state.Qubit) (*DenseGate, error) {
	return permuteGate(g, newOrder)
}

func (g *DenseGate) String() string {
	parts := make([]string, 0, len(g.qubits)+1)
	parts = append(parts, "Dense")
	for _, q := range g.qubits {
		parts = append(parts, string(q))
	}
	return strings.Join(parts, " ")
}

func (g *DenseGate) equal(other *DenseGate) bool {
	if !sameQubits(g.qubits, other.qubits) || g.op.Dim != other.op.Dim {
		return false
	}
	for i := range g.op.Data {
		if g.op.Data[i] != other.op.Data[i] {
			return false
		}
	}
	return true
}

// Compose interprets self as applied after other, time running right to
// left in matrix notation. If self's qubits are not a subset of other's,
// other is first padded with an identity gate over the missing qubits.
// The result's qubits equal other's post-padding ordering.
func Compose(self, other Gate) (*DenseGate, error) {
	otherQubits := other.Qubits()
	var extra []state.Qubit
	for _, q := range self.Qubits() {
		if state.IndexQubit(otherQubits, q) < 0 {
			extra = append(extra, q)
		}
	}
	otherOp, err := other.Operator()
	if err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		otherQubits = append(slices.Clone(otherQubits), extra...)
		otherOp = tensor.Kron(otherOp, tensor.Identity(1<<len(extra)))
	}

	positions := make([]int, len(self.Qubits()))
	for i, q := range self.Qubits() {
		positions[i] = state.IndexQubit(otherQubits, q)
	}
	selfOp, err := self.Operator()
	if err != nil {
		return nil, err
	}
	return NewDenseGate(tensor.MulMat(selfOp, positions, otherOp), otherQubits...)
}

// permuteGate implements Permute for any gate with a numeric operator.
func permuteGate(g Gate, newOrder []state.Qubit) (*DenseGate, error) {
	qubits := g.Qubits()
	if slices.Equal(qubits, newOrder) {
		op, err := g.Operator()
		if err != nil {
			return nil, err
		}
		return NewDenseGate(op, newOrder...)
	}
	perm := make([]int, len(newOrder))
	for i, q := range newOrder {
		idx := state.IndexQubit(qubits, q)
		if idx < 0 {
			return nil, fmt.Errorf("ops: qubit %q not in gate", q)
		}
		perm[i] = idx
	}
	if len(newOrder) != len(qubits) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrArityMismatch, len(newOrder), len(qubits))
	}
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	return NewDenseGate(tensor.PermuteQubits(op, perm), newOrder...)
}

// runGate contracts a gate's operator onto a pure state at the gate's
// qubit positions.
func runGate(g Gate, k *state.Ket) (*state.Ket, error) {
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	positions, err := qubitPositions(g.Qubits(), k.Qubits())
	if err != nil {
		return nil, err
	}
	amps := tensor.MulVec(op, positions, k.QubitCount(), k.Amplitudes())
	return k.WithAmplitudes(amps), nil
}

// evolveGate conjugates a density state by a gate's operator: ρ' = GρG†.
func evolveGate(g Gate, d *state.Density) (*state.Density, error) {
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	positions, err := qubitPositions(g.Qubits(), d.Qubits())
	if err != nil {
		return nil, err
	}
	mat := tensor.MulMat(op, positions, d.Matrix())
	mat = tensor.MulMatCols(tensor.Conj(op), positions, mat)
	return d.WithMatrix(mat), nil
}

func qubitPositions(gateQubits, stateQubits []state.Qubit) ([]int, error) {
	positions := make([]int, len(gateQubits))
	for i, q := range gateQubits {
		idx := state.IndexQubit(stateQubits, q)
		if idx < 0 {
			return nil, fmt.Errorf("ops: qubit %q not in state", q)
		}
		positions[i] = idx
	}
	return positions, nil
}

// powOperator raises an operator to a power using the rule for its
// structural case. Integer exponents work for every structure. Continuous
// exponents exponentiate the diagonal directly for diagonal-like
// structures, and fall back to a closed-form eigendecomposition for
// single-qubit operators; larger unstructured operators return
// ErrNotSupported.
func powOperator(op tensor.Matrix, structure OperatorStructure, t expr.Value) (tensor.Matrix, error) {
	tv, err := expr.Eval(t)
	if err != nil {
		return tensor.Matrix{}, fmt.Errorf("%w: symbolic exponent", ErrNotSupported)
	}
	if math.Abs(imag(tv)) > Atol {
		return tensor.Matrix{}, fmt.Errorf("%w: complex exponent", ErrNotSupported)
	}
	x := real(tv)

	if structure == Identity {
		return op.Clone(), nil
	}
	if isInteger(x) {
		k := int(math.Round(x))
		if k >= 0 {
			return tensor.PowInt(op, k), nil
		}
		// Negative integer powers invert via the Hermitian conjugate,
		// which is only an inverse for unitary operators. Rank-deficient
		// operators (projectors) have no inverse at all.
		inv := tensor.ConjTranspose(op)
		if !tensor.EqualTol(tensor.Mul(op, inv), tensor.Identity(op.Dim), Atol) {
			return tensor.Matrix{}, fmt.Errorf("%w: negative power of non-unitary operator", ErrNotSupported)
		}
		return tensor.PowInt(inv, -k), nil
	}

	switch structure {
	case Diagonal:
		return tensor.PowDiagonal(op, x), nil
	default:
		if op.Dim == 2 {
			out, err := tensor.Pow2x2(op, x)
			if err != nil {
				return tensor.Matrix{}, fmt.Errorf("%w: %v", ErrNotSupported, err)
			}
			return out, nil
		}
		return tensor.Matrix{}, fmt.Errorf(
			"%w: continuous power of %d-dimensional %s operator", ErrNotSupported, op.Dim, structure)
	}
}

func isInteger(x float64) bool {
	return math.Abs(x-math.Round(x)) < Atol
}

// GatesEqualTol compares two gates' operators within the given tolerance,
// after permuting b onto a's qubit ordering.
func GatesEqualTol(a, b Gate, tol float64) bool {
	if len(a.Qubits()) != len(b.Qubits()) {
		return false
	}
	bp, err := permuteGate(b, a.Qubits())
	if err != nil {
		return false
	}
	aOp, err := a.Operator()
	if err != nil {
		return false
	}
	bOp, err := bp.Operator()
	if err != nil {
		return false
	}
	return tensor.EqualTol(aOp, bOp, tol)
}

var _ Gate = (*DenseGate)(nil)
