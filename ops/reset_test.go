package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
)

func TestReset_SingleQubit(t *testing.T) {
	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err := xGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = xGate(state.Q(1)).Run(k)
	require.NoError(t, err)

	r, err := NewReset(state.Q(0))
	require.NoError(t, err)
	k, err = r.Run(k)
	require.NoError(t, err)
	// q0 back to |0>, q1 still |1>.
	testutil.RequireAmpsNear(t, []complex128{0, 1, 0, 0}, k.Amplitudes())
}

func TestReset_AllQubitsByDefault(t *testing.T) {
	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = cnotGate(state.Q(0), state.Q(1)).Run(k)
	require.NoError(t, err)

	r, err := NewReset()
	require.NoError(t, err)
	k, err = r.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{1, 0, 0, 0}, k.Amplitudes())
	testutil.RequireUnitNorm(t, k.Norm())
}

func TestReset_SuperpositionRenormalized(t *testing.T) {
	k := state.ZeroKet(state.Q(0))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	r, err := NewReset(state.Q(0))
	require.NoError(t, err)
	k, err = r.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{1, 0}, k.Amplitudes())
}

func TestReset_ZeroNormState(t *testing.T) {
	// The reset map sends |-> to the zero vector; renormalizing that
	// would produce NaN amplitudes, so Reset fails instead.
	k := state.ZeroKet(state.Q(0))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = zGate(state.Q(0)).Run(k)
	require.NoError(t, err)

	r, err := NewReset(state.Q(0))
	require.NoError(t, err)
	_, err = r.Run(k)
	assert.ErrorIs(t, err, ErrZeroNorm)
}

func TestReset_NotAChannel(t *testing.T) {
	r, err := NewReset(state.Q(0))
	require.NoError(t, err)
	_, err = r.Evolve(state.ZeroDensity(state.Q(0)))
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = r.AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestReset_String(t *testing.T) {
	r, err := NewReset()
	require.NoError(t, err)
	assert.Equal(t, "Reset", r.String())
	r, err = NewReset(state.Q(0), state.Q(1))
	require.NoError(t, err)
	assert.Equal(t, "Reset 0 1", r.String())
}

func TestInitialize_ReplacesState(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)
	target, err := state.NewKet([]complex128{s, 0, 0, s}, []state.Qubit{state.Q(0), state.Q(1)}, nil)
	require.NoError(t, err)
	in := NewInitialize(target)

	running := state.ZeroKet(state.Q(0), state.Q(1)).Store(state.Memory{"m": 1})
	k, err := in.Run(running)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{s, 0, 0, s}, k.Amplitudes())

	v, ok := k.Memory().Value("m")
	require.True(t, ok, "classical memory carries over")
	assert.Equal(t, 1, v)
}

func TestInitialize_PermutesToRunningOrder(t *testing.T) {
	// |01> captured over (q0, q1), applied to a state listing (q1, q0).
	target, err := state.NewKet([]complex128{0, 1, 0, 0}, []state.Qubit{state.Q(0), state.Q(1)}, nil)
	require.NoError(t, err)
	running := state.ZeroKet(state.Q(1), state.Q(0))
	k, err := NewInitialize(target).Run(running)
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(1), state.Q(0)}, k.Qubits())
	testutil.RequireAmpsNear(t, []complex128{0, 0, 1, 0}, k.Amplitudes())
}

func TestInitialize_Evolve(t *testing.T) {
	target, err := state.NewKet([]complex128{0, 1}, []state.Qubit{state.Q(0)}, nil)
	require.NoError(t, err)
	d, err := NewInitialize(target).Evolve(state.ZeroDensity(state.Q(0)))
	require.NoError(t, err)
	assert.InDelta(t, 1, d.Probabilities()[1], testutil.Tol)
}

func TestProjection_RequiresConsistentQubits(t *testing.T) {
	_, err := NewProjection()
	assert.Error(t, err)

	a := state.ZeroKet(state.Q(0))
	b := state.ZeroKet(state.Q(1))
	_, err = NewProjection(a, b)
	assert.Error(t, err)
}

func TestProjection_ProjectsOntoSpan(t *testing.T) {
	// Projection onto |0> of an equal superposition halves the norm.
	p, err := NewProjection(state.ZeroKet(state.Q(0)))
	require.NoError(t, err)
	k := state.ZeroKet(state.Q(0))
	k, err = hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = p.Run(k)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, k.Norm(), testutil.Tol)
	assert.InDelta(t, 0, real(k.Amplitudes()[1]), testutil.Tol)
}

func TestProjection_SelfAdjoint(t *testing.T) {
	p, err := NewProjection(state.ZeroKet(state.Q(0)))
	require.NoError(t, err)
	adj, err := p.H()
	require.NoError(t, err)
	assert.Same(t, p, adj)
	_, err = p.AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestProjection_OperatorIsIdempotent(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)
	plus, err := state.NewKet([]complex128{s, s}, []state.Qubit{state.Q(0)}, nil)
	require.NoError(t, err)
	p, err := NewProjection(plus)
	require.NoError(t, err)
	op := p.Operator()
	sq := make([]complex128, 4)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			for j := 0; j < 2; j++ {
				sq[r*2+c] += op.At(r, j) * op.At(j, c)
			}
		}
	}
	for i := range sq {
		assert.InDelta(t, 0, real(sq[i]-op.Data[i]), testutil.Tol)
	}
}
