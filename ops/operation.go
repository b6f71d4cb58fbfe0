package ops

import (
	"fmt"
	"strings"

	"github.com/qopher/qopher/state"
)

// Operation is the capability contract every executable action satisfies.
//
// Implementations are immutable: Relabel, On, and H produce new instances.
// Run executes against a pure state, Evolve against a mixed state; an
// implementation that does not support one of the two returns
// ErrNotImplemented.
type Operation interface {
	// Qubits returns the ordered qubit tuple this operation acts on.
	// The tuple contains no duplicates. Callers must not modify it.
	Qubits() []state.Qubit

	// Addrs returns the ordered classical addresses this operation touches.
	Addrs() []state.Addr

	// AsGate converts the operation into a dense gate. Operations without
	// a unitary form return ErrNotRepresentable.
	AsGate() (Gate, error)

	// H returns the Hermitian conjugate. For unitary gates and circuits
	// composed of them this is the inverse. Operations without a
	// well-defined adjoint return ErrNotSupported.
	H() (Operation, error)

	// Relabel substitutes qubit and address labels. A nil map leaves that
	// label kind unchanged; a non-nil map must cover every label in use,
	// else ErrUnmappedQubit.
	Relabel(qubitMap map[state.Qubit]state.Qubit, addrMap map[state.Addr]state.Addr) (Operation, error)

	// On relabels onto the given qubits positionally. The count must match
	// the operation's arity, else ErrArityMismatch.
	On(qubits ...state.Qubit) (Operation, error)

	// Run applies the operation to a pure state, returning a new state.
	Run(k *state.Ket) (*state.Ket, error)

	// Evolve applies the operation to a mixed state, returning a new state.
	Evolve(d *state.Density) (*state.Density, error)

	// String renders the operation for traces and golden files.
	String() string
}

// onQubits implements the On shortcut shared by all operations: build the
// positional qubit map and delegate to Relabel.
func onQubits(op Operation, qubits []state.Qubit) (Operation, error) {
	current := op.Qubits()
	if len(qubits) != len(current) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrArityMismatch, len(qubits), len(current))
	}
	qmap := make(map[state.Qubit]state.Qubit, len(current))
	for i, q := range current {
		qmap[q] = qubits[i]
	}
	return op.Relabel(qmap, nil)
}

// mapQubits applies a qubit relabel map to an ordered tuple. A nil map is
// the identity. A non-nil map missing a label in use is an error.
func mapQubits(qubits []state.Qubit, qmap map[state.Qubit]state.Qubit) ([]state.Qubit, error) {
	if qmap == nil {
		return qubits, nil
	}
	out := make([]state.Qubit, len(qubits))
	for i, q := range qubits {
		mapped, ok := qmap[q]
		if !ok {
			return nil, fmt.Errorf("%w: qubit %q", ErrUnmappedQubit, q)
		}
		out[i] = mapped
	}
	return out, nil
}

// mapAddrs applies an address relabel map to an ordered tuple.
func mapAddrs(addrs []state.Addr, amap map[state.Addr]state.Addr) ([]state.Addr, error) {
	if amap == nil {
		return addrs, nil
	}
	out := make([]state.Addr, len(addrs))
	for i, a := range addrs {
		mapped, ok := amap[a]
		if !ok {
			return nil, fmt.Errorf("%w: addr %q", ErrUnmappedQubit, a)
		}
		out[i] = mapped
	}
	return out, nil
}

// checkUniqueQubits enforces the no-duplicate invariant on a qubit tuple.
func checkUniqueQubits(qubits []state.Qubit) error {
	seen := make(map[state.Qubit]struct{}, len(qubits))
	for _, q := range qubits {
		if _, dup := seen[q]; dup {
			return fmt.Errorf("ops: duplicate qubit %q", q)
		}
		seen[q] = struct{}{}
	}
	return nil
}

// Equal reports structural equality of two operations: same concrete
// type, same label tuples, and for composites pairwise-equal children in
// order. Gate operators are compared exactly through their defining data
// (type and args for standard gates, matrices for dense gates), with no
// numeric tolerance.
func Equal(a, b Operation) bool {
	switch av := a.(type) {
	case *StdGate:
		bv, ok := b.(*StdGate)
		return ok && av.equal(bv)
	case *DenseGate:
		bv, ok := b.(*DenseGate)
		return ok && av.equal(bv)
	case *Circuit:
		bv, ok := b.(*Circuit)
		return ok && av.equal(bv)
	case *Moment:
		bv, ok := b.(*Moment)
		return ok && av.circ.equal(bv.circ)
	case *Measure:
		bv, ok := b.(*Measure)
		return ok && av.qubit == bv.qubit && av.addr == bv.addr
	case *Store:
		bv, ok := b.(*Store)
		return ok && av.addr == bv.addr && av.value == bv.value
	case *If:
		bv, ok := b.(*If)
		return ok && av.addr == bv.addr && av.expected == bv.expected && Equal(av.op, bv.op)
	case *Reset:
		bv, ok := b.(*Reset)
		return ok && sameQubits(av.qubits, bv.qubits)
	case *Barrier:
		bv, ok := b.(*Barrier)
		return ok && sameQubits(av.qubits, bv.qubits)
	default:
		return a == b
	}
}

// joinQubits renders a qubit tuple for String methods.
func joinQubits(qubits []state.Qubit) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = string(q)
	}
	return strings.Join(parts, " ")
}

func sameQubits(a, b []state.Qubit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
