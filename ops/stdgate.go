package ops

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

// GateTypeSpec declares a standard gate family. All descriptor fields are
// given explicitly; nothing is inferred from signatures.
type GateTypeSpec struct {
	// Name is the registry key, e.g. "Rx".
	Name string

	// QubitCount is the fixed number of qubits instances act on.
	QubitCount int

	// Params are the ordered named parameters of the family. Instances
	// supply one argument per parameter.
	Params []string

	// SymOperator is the symbolic operator template over Params. Its
	// dimension must be 2^QubitCount.
	SymOperator expr.Matrix

	// Structure classifies the operator matrix.
	Structure OperatorStructure

	// Hermitian marks families whose operator is always Hermitian.
	Hermitian bool
}

// GateType is the immutable per-family descriptor: parameter names, qubit
// count, symbolic operator template, structure and hermiticity, computed
// once at definition time. It also carries the type-level operator cache
// shared by all instances of a parameter-free family.
type GateType struct {
	name        string
	qubitCount  int
	params      []string
	symOperator expr.Matrix
	structure   OperatorStructure
	hermitian   bool
	target      *GateType // set for controlled gate types

	// Zero-argument families lower their template to a numeric matrix
	// once, at the type level. The buffer is written once and never
	// mutated afterwards.
	opOnce   sync.Once
	cachedOp tensor.Matrix
	cacheErr error
}

// NewGateType builds a gate family descriptor from an explicit spec. It
// panics on inconsistent declarations (wrong template dimension, template
// symbols outside the parameter list): these are configuration errors
// made at type-definition time.
func NewGateType(spec GateTypeSpec) *GateType {
	if spec.SymOperator.Dim != 1<<spec.QubitCount {
		panic(fmt.Sprintf("ops: gate type %s: template dimension %d for %d qubits",
			spec.Name, spec.SymOperator.Dim, spec.QubitCount))
	}
	declared := make(map[string]struct{}, len(spec.Params))
	for _, p := range spec.Params {
		declared[p] = struct{}{}
	}
	for _, s := range spec.SymOperator.Symbols() {
		if _, ok := declared[s]; !ok {
			panic(fmt.Sprintf("ops: gate type %s: template symbol %q not declared as a parameter",
				spec.Name, s))
		}
	}
	return &GateType{
		name:        spec.Name,
		qubitCount:  spec.QubitCount,
		params:      slices.Clone(spec.Params),
		symOperator: spec.SymOperator,
		structure:   spec.Structure,
		hermitian:   spec.Hermitian,
	}
}

// Name returns the family name.
func (gt *GateType) Name() string { return gt.name }

// QubitCount returns the fixed qubit arity.
func (gt *GateType) QubitCount() int { return gt.qubitCount }

// ParamNames returns the ordered parameter names. Callers must not modify
// the returned slice.
func (gt *GateType) ParamNames() []string { return gt.params }

// SymOperator returns the family's symbolic operator template.
func (gt *GateType) SymOperator() expr.Matrix { return gt.symOperator }

// Structure returns the family's operator structure classification.
func (gt *GateType) Structure() OperatorStructure { return gt.structure }

// Hermitian reports whether the family's operator is always Hermitian.
func (gt *GateType) Hermitian() bool { return gt.hermitian }

// Target returns the target family of a controlled gate type, or nil.
func (gt *GateType) Target() *GateType { return gt.target }

// New instantiates the family with the given arguments and qubits.
func (gt *GateType) New(args []expr.Value, qubits ...state.Qubit) (*StdGate, error) {
	if len(args) != len(gt.params) {
		return nil, fmt.Errorf("ops: %s takes %d args, got %d", gt.name, len(gt.params), len(args))
	}
	if len(qubits) != gt.qubitCount {
		return nil, fmt.Errorf("%w: %s acts on %d qubits, got %d",
			ErrArityMismatch, gt.name, gt.qubitCount, len(qubits))
	}
	if err := checkUniqueQubits(qubits); err != nil {
		return nil, err
	}
	return &StdGate{gt: gt, args: slices.Clone(args), qubits: slices.Clone(qubits)}, nil
}

// MustNew is New panicking on error; for fixed-arity constructor wrappers.
func (gt *GateType) MustNew(args []expr.Value, qubits ...state.Qubit) *StdGate {
	g, err := gt.New(args, qubits...)
	if err != nil {
		panic(err)
	}
	return g
}

// typeOperator lowers the template with the given numeric arguments,
// caching zero-argument families at the type level.
func (gt *GateType) typeOperator() (tensor.Matrix, error) {
	gt.opOnce.Do(func() {
		gt.cachedOp, gt.cacheErr = gt.symOperator.Eval()
	})
	return gt.cachedOp, gt.cacheErr
}

// StdGate is an instance of a standard gate family: the family descriptor
// plus ordered argument values and qubit labels. Instances are immutable;
// the numeric operator is computed lazily and cached per instance (or at
// the type level for parameter-free families).
type StdGate struct {
	gt     *GateType
	args   []expr.Value
	qubits []state.Qubit

	opOnce sync.Once
	op     tensor.Matrix
	opErr  error
}

// Type returns the family descriptor.
func (g *StdGate) Type() *GateType { return g.gt }

// Name returns the family name.
func (g *StdGate) Name() string { return g.gt.name }

// Args returns the ordered argument values. Callers must not modify the
// returned slice.
func (g *StdGate) Args() []expr.Value { return g.args }

// Param returns the argument bound to a named parameter.
func (g *StdGate) Param(name string) (expr.Value, error) {
	idx := slices.Index(g.gt.params, name)
	if idx < 0 {
		return nil, fmt.Errorf("ops: %s has no parameter %q", g.gt.name, name)
	}
	return g.args[idx], nil
}

func (g *StdGate) Qubits() []state.Qubit { return g.qubits }
func (g *StdGate) Addrs() []state.Addr   { return nil }

func (g *StdGate) AsGate() (Gate, error) { return g, nil }

// Operator lowers the template with this instance's arguments to a frozen
// numeric matrix. Parameter-free families share one matrix across all
// instances at the type level; parameterized instances cache per instance.
func (g *StdGate) Operator() (tensor.Matrix, error) {
	if len(g.args) == 0 {
		return g.gt.typeOperator()
	}
	g.opOnce.Do(func() {
		subs := make(map[string]expr.Value, len(g.args))
		for i, name := range g.gt.params {
			v, err := expr.Eval(g.args[i])
			if err != nil {
				g.opErr = fmt.Errorf("%w: %s: %v", ErrSymbolicOperator, g.gt.name, err)
				return
			}
			subs[name] = expr.C(v)
		}
		g.op, g.opErr = g.gt.symOperator.Subs(subs).Eval()
	})
	return g.op, g.opErr
}

// SymOperator substitutes this instance's arguments into the template
// while leaving still-symbolic arguments unevaluated. Substitution goes
// through fresh dummy symbols so parameter names occurring inside argument
// expressions cannot collide.
func (g *StdGate) SymOperator() (expr.Matrix, error) {
	toDummy := make(map[string]expr.Value, len(g.gt.params))
	fromDummy := make(map[string]expr.Value, len(g.gt.params))
	for i, name := range g.gt.params {
		dummy := fmt.Sprintf("__arg%d", i)
		toDummy[name] = expr.Symbol(dummy)
		fromDummy[dummy] = g.args[i]
	}
	return g.gt.symOperator.Subs(toDummy).Subs(fromDummy), nil
}

func (g *StdGate) Diagonal() ([]complex128, error) {
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	return tensor.Diagonal(op), nil
}

func (g *StdGate) Structure() OperatorStructure { return g.gt.structure }
func (g *StdGate) Hermitian() bool              { return g.gt.hermitian }

// H returns the Hermitian conjugate: the instance itself for Hermitian
// families, otherwise a dense gate holding the conjugate transpose.
func (g *StdGate) H() (Operation, error) {
	if g.gt.hermitian {
		return g, nil
	}
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	return NewDenseGate(tensor.ConjTranspose(op), g.qubits...)
}

// Relabel returns a new instance of the same family with identical
// arguments and substituted qubits.
func (g *StdGate) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(g.qubits, qmap)
	if err != nil {
		return nil, err
	}
	return g.gt.New(g.args, qubits...)
}

func (g *StdGate) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(g, qubits)
}

func (g *StdGate) Run(k *state.Ket) (*state.Ket, error) {
	return runGate(g, k)
}

func (g *StdGate) Evolve(d *state.Density) (*state.Density, error) {
	return evolveGate(g, d)
}

func (g *StdGate) Pow(t expr.Value) (Gate, error) {
	op, err := g.Operator()
	if err != nil {
		return nil, err
	}
	out, err := powOperator(op, g.gt.structure, t)
	if err != nil {
		return nil, err
	}
	dense, err := NewDenseGate(out, g.qubits...)
	if err != nil {
		return nil, err
	}
	dense.structure = g.gt.structure
	return dense, nil
}

// Permute reorders this gate's qubits, returning a dense gate.
func (g *StdGate) Permute(newOrder []state.Qubit) (*DenseGate, error) {
	return permuteGate(g, newOrder)
}

// equal implements exact instance equality: same family, same qubit tuple,
// same argument tuple, with no numeric tolerance.
func (g *StdGate) equal(other *StdGate) bool {
	if g.gt != other.gt || !sameQubits(g.qubits, other.qubits) {
		return false
	}
	for i := range g.args {
		if !expr.Equal(g.args[i], other.args[i]) {
			return false
		}
	}
	return true
}

func (g *StdGate) String() string {
	var b strings.Builder
	b.WriteString(g.gt.name)
	if len(g.args) > 0 {
		b.WriteString("(")
		for i, a := range g.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(")")
	}
	for _, q := range g.qubits {
		b.WriteString(" " + string(q))
	}
	return b.String()
}

var _ Gate = (*StdGate)(nil)
