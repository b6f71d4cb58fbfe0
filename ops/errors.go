package ops

import "errors"

// Failure taxonomy. All errors are raised at the point of violation and
// propagate to the caller unwrapped in meaning: callers classify with
// errors.Is.
var (
	// ErrArityMismatch reports On or a relabel shortcut given the wrong
	// number of qubits.
	ErrArityMismatch = errors.New("ops: wrong number of qubits")

	// ErrIncommensurateClosure reports an explicit Circuit qubit or addr
	// set that does not cover its children's usage.
	ErrIncommensurateClosure = errors.New("ops: closure does not cover child operations")

	// ErrNonDisjointMoment reports Moment children sharing a qubit.
	ErrNonDisjointMoment = errors.New("ops: qubits of operations within a moment must be disjoint")

	// ErrControlParamMismatch reports a controlled gate type whose declared
	// parameters disagree with its target's. This is a configuration error
	// and is raised as a panic at type-definition time.
	ErrControlParamMismatch = errors.New("ops: controlled gate parameters disagree with target")

	// ErrNotRepresentable reports AsGate (or a channel conversion)
	// requested on an operation without that form.
	ErrNotRepresentable = errors.New("ops: operation not representable as a gate")

	// ErrNotSupported reports an operation without a well-defined Hermitian
	// conjugate, or a gate power outside the supported structural cases.
	ErrNotSupported = errors.New("ops: operation not supported")

	// ErrNotImplemented reports an unimplemented run/evolve combination.
	ErrNotImplemented = errors.New("ops: not implemented for this state kind")

	// ErrZeroNorm reports a non-trace-preserving operation that annihilated
	// the state, leaving nothing to renormalize.
	ErrZeroNorm = errors.New("ops: operation produced a zero-norm state")

	// ErrMissingMemoryKey reports If reading an absent classical address.
	ErrMissingMemoryKey = errors.New("ops: classical memory key not set")

	// ErrUnmappedQubit reports a relabel map that omits an in-use qubit or
	// address.
	ErrUnmappedQubit = errors.New("ops: relabel map omits a label in use")

	// ErrSymbolicOperator reports a numeric operator requested from a gate
	// whose arguments still contain free symbols.
	ErrSymbolicOperator = errors.New("ops: operator has unresolved symbolic parameters")
)
