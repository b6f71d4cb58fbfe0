package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

func TestNewCircuit_ClosureDefaultsToSortedUnion(t *testing.T) {
	c, err := NewCircuit([]Operation{
		xGate(state.Q(10)),
		NewMeasure(state.Q(2), MeasureTo("m")),
	})
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(2), state.Q(10)}, c.Qubits())
	assert.Equal(t, []state.Addr{"m"}, c.Addrs())
}

func TestNewCircuit_WidenedClosure(t *testing.T) {
	c, err := NewCircuit(
		[]Operation{xGate(state.Q(0))},
		WithQubits(state.Q(0), state.Q(1)),
		WithAddrs("spare"),
	)
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(0), state.Q(1)}, c.Qubits())
	assert.Equal(t, []state.Addr{"spare"}, c.Addrs())
}

func TestNewCircuit_NarrowedClosureRejected(t *testing.T) {
	_, err := NewCircuit(
		[]Operation{xGate(state.Q(0)), xGate(state.Q(1))},
		WithQubits(state.Q(0)),
	)
	assert.ErrorIs(t, err, ErrIncommensurateClosure)

	_, err = NewCircuit(
		[]Operation{NewMeasure(state.Q(0), MeasureTo("m"))},
		WithAddrs("other"),
	)
	assert.ErrorIs(t, err, ErrIncommensurateClosure)
}

func TestCircuit_Run_InOrder(t *testing.T) {
	c := MustCircuit(
		xGate(state.Q(0)),
		cnotGate(state.Q(0), state.Q(1)),
	)
	k, err := c.Run(state.ZeroKet(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 0, 0, 1}, k.Amplitudes())
}

func TestCircuit_AsGate_FoldsInProgramOrder(t *testing.T) {
	// X then Z folds to ZX.
	c := MustCircuit(xGate(state.Q(0)), zGate(state.Q(0)))
	g, err := c.AsGate()
	require.NoError(t, err)
	op, err := g.Operator()
	require.NoError(t, err)
	want := tensor.FromRows([][]complex128{
		{0, 1},
		{-1, 0},
	})
	testutil.RequireMatrixNear(t, want, op)
}

func TestCircuit_AsGate_BellPreparation(t *testing.T) {
	c := MustCircuit(hGate(state.Q(0)), cnotGate(state.Q(0), state.Q(1)))
	g, err := c.AsGate()
	require.NoError(t, err)
	op, err := g.Operator()
	require.NoError(t, err)
	s := complex(1/math.Sqrt2, 0)
	// First column is the Bell state.
	assert.InDelta(t, 0, real(op.At(0, 0)-s), testutil.Tol)
	assert.InDelta(t, 0, real(op.At(3, 0)-s), testutil.Tol)
	assert.InDelta(t, 0, real(op.At(1, 0)), testutil.Tol)
	assert.InDelta(t, 0, real(op.At(2, 0)), testutil.Tol)
}

func TestCircuit_AsGate_NonGateChild(t *testing.T) {
	c := MustCircuit(NewMeasure(state.Q(0)))
	_, err := c.AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestCircuit_H_InvertsUnitaryCircuit(t *testing.T) {
	c := MustCircuit(
		hGate(state.Q(0)),
		sType.MustNew(nil, state.Q(0)),
		cnotGate(state.Q(0), state.Q(1)),
	)
	inv, err := c.H()
	require.NoError(t, err)

	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err = c.Run(k)
	require.NoError(t, err)
	k, err = inv.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{1, 0, 0, 0}, k.Amplitudes())
}

func TestCircuit_DoubleAdjointRestoresCircuit(t *testing.T) {
	c := MustCircuit(
		hGate(state.Q(0)),
		cnotGate(state.Q(0), state.Q(1)),
	)
	adj, err := c.H()
	require.NoError(t, err)
	back, err := adj.H()
	require.NoError(t, err)
	assert.True(t, Equal(c, back), "double adjoint restores child order and content")
}

func TestCircuit_Relabel(t *testing.T) {
	c := MustCircuit(cnotGate(state.Q(0), state.Q(1)))
	r, err := c.Relabel(map[state.Qubit]state.Qubit{
		state.Q(0): state.Q(1),
		state.Q(1): state.Q(0),
	}, nil)
	require.NoError(t, err)
	inner := r.(*Circuit).Elements()[0].(*StdGate)
	assert.Equal(t, []state.Qubit{state.Q(1), state.Q(0)}, inner.Qubits())
}

func TestCircuit_On(t *testing.T) {
	c := MustCircuit(hGate(state.Q(0)), xGate(state.Q(1)))
	moved, err := c.On(state.Q(5), state.Q(6))
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(5), state.Q(6)}, moved.Qubits())

	_, err = c.On(state.Q(5))
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestCircuit_Evolve(t *testing.T) {
	c := MustCircuit(hGate(state.Q(0)), cnotGate(state.Q(0), state.Q(1)))
	d, err := c.Evolve(state.ZeroDensity(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	probs := d.Probabilities()
	assert.InDelta(t, 0.5, probs[0], testutil.Tol)
	assert.InDelta(t, 0.5, probs[3], testutil.Tol)
	assert.InDelta(t, 1, d.Norm(), testutil.Tol)
}

func TestEqual_Circuits(t *testing.T) {
	a := MustCircuit(hGate(state.Q(0)), cnotGate(state.Q(0), state.Q(1)))
	b := MustCircuit(hGate(state.Q(0)), cnotGate(state.Q(0), state.Q(1)))
	c := MustCircuit(cnotGate(state.Q(0), state.Q(1)), hGate(state.Q(0)))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c), "order matters")
}

func TestCircuit_String(t *testing.T) {
	c := MustCircuit(hGate(state.Q(0)), NewMeasure(state.Q(0)))
	assert.Equal(t, "Circuit\n    H 0\n    Measure 0", c.String())
}
