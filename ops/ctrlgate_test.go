package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

func TestNewCtrlGateType_BlockStructure(t *testing.T) {
	op, err := cnotGate(state.Q(0), state.Q(1)).Operator()
	require.NoError(t, err)
	want := tensor.FromRows([][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	testutil.RequireMatrixNear(t, want, op)
}

func TestNewCtrlGateType_Toffoli(t *testing.T) {
	ccnot := NewCtrlGateType("CCNot", 3, nil, cnotType)
	g, err := ccnot.New(nil, state.Q(0), state.Q(1), state.Q(2))
	require.NoError(t, err)
	op, err := g.Operator()
	require.NoError(t, err)
	// Identity on the first six basis states, X on the last two.
	want := tensor.Identity(8)
	want.Set(6, 6, 0)
	want.Set(7, 7, 0)
	want.Set(6, 7, 1)
	want.Set(7, 6, 1)
	testutil.RequireMatrixNear(t, want, op)
}

func TestNewCtrlGateType_QubitCountPanics(t *testing.T) {
	assert.Panics(t, func() { NewCtrlGateType("Bad", 1, nil, xType) })
}

func TestNewCtrlGateType_ParamMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { NewCtrlGateType("Bad", 2, []string{"phi"}, rzType) })
}

func TestNewCtrlGateType_StructureDerivation(t *testing.T) {
	cz := NewCtrlGateType("CZ", 2, nil, zType)
	assert.Equal(t, Diagonal, cz.Structure())

	cswap := NewCtrlGateType("CSwap", 3, nil, swapType)
	assert.Equal(t, Permutation, cswap.Structure(),
		"controlled swap is a permutation, not a qubit swap")

	assert.Equal(t, Permutation, cnotType.Structure())
	assert.True(t, cnotType.Hermitian())
}

func TestGateType_ControlQubitCount(t *testing.T) {
	assert.Equal(t, 0, xType.ControlQubitCount())
	assert.Equal(t, 1, cnotType.ControlQubitCount())

	ccnot := NewCtrlGateType("CCNot", 3, nil, cnotType)
	assert.Equal(t, 1, ccnot.ControlQubitCount(), "one control over the CNot target")
	assert.Equal(t, cnotType, ccnot.Target())
}

func TestStdGate_ControlQubits(t *testing.T) {
	g := cnotGate(state.Q(3), state.Q(1))
	assert.Equal(t, []state.Qubit{state.Q(3)}, g.ControlQubits())
}

func TestStdGate_TargetGate(t *testing.T) {
	g := cnotGate(state.Q(0), state.Q(1))
	target, err := g.TargetGate()
	require.NoError(t, err)
	assert.Equal(t, "X", target.Name())
	assert.Equal(t, []state.Qubit{state.Q(1)}, target.Qubits())

	_, err = xGate(state.Q(0)).TargetGate()
	assert.Error(t, err)
}

func TestCtrlGate_ParameterizedTarget(t *testing.T) {
	crz := NewCtrlGateType("CRz", 2, []string{"theta"}, rzType)
	g, err := crz.New([]expr.Value{expr.N(1.2)}, state.Q(0), state.Q(1))
	require.NoError(t, err)
	op, err := g.Operator()
	require.NoError(t, err)

	target, err := rzGate(expr.N(1.2), state.Q(1)).Operator()
	require.NoError(t, err)
	assert.Equal(t, complex128(1), op.At(0, 0))
	assert.Equal(t, complex128(1), op.At(1, 1))
	assert.InDelta(t, 0, real(op.At(2, 2)-target.At(0, 0)), testutil.Tol)
	assert.InDelta(t, 0, real(op.At(3, 3)-target.At(1, 1)), testutil.Tol)
}

func TestCtrlGate_ControlledBehavior(t *testing.T) {
	// Control clear: target untouched.
	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err := cnotGate(state.Q(0), state.Q(1)).Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{1, 0, 0, 0}, k.Amplitudes())

	// Control set: target flips.
	k = state.ZeroKet(state.Q(0), state.Q(1))
	k, err = xGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = cnotGate(state.Q(0), state.Q(1)).Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 0, 0, 1}, k.Amplitudes())
}
