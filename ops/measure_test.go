package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
)

func TestMeasure_DefaultsAddrToQubit(t *testing.T) {
	m := NewMeasure(state.Q(0))
	assert.Equal(t, state.Addr("0"), m.Addr())
	assert.Equal(t, []state.Addr{"0"}, m.Addrs())
	assert.Equal(t, []state.Qubit{state.Q(0)}, m.Qubits())
}

func TestMeasure_ZeroStateAlwaysZero(t *testing.T) {
	// Any draw in [0, 1) selects the zero branch when P(0) = 1.
	for _, draw := range []float64{0, 0.5, 0.999} {
		src := testutil.NewSequenceRand(draw)
		m := NewMeasure(state.Q(0), MeasureWithRand(src.Draw))
		k, err := m.Run(state.ZeroKet(state.Q(0)))
		require.NoError(t, err)
		v, ok := k.Memory().Value("0")
		require.True(t, ok)
		assert.Equal(t, 0, v)
		assert.Equal(t, 0, src.Remaining(), "exactly one draw consumed")
	}
}

func TestMeasure_OneStateAlwaysOne(t *testing.T) {
	src := testutil.NewSequenceRand(0.1)
	k := state.ZeroKet(state.Q(0))
	k, err := xGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	m := NewMeasure(state.Q(0), MeasureWithRand(src.Draw))
	k, err = m.Run(k)
	require.NoError(t, err)
	v, ok := k.Memory().Value("0")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestMeasure_SuperpositionBranches(t *testing.T) {
	run := func(draw float64) (int, *state.Ket) {
		k := state.ZeroKet(state.Q(0))
		k, err := hGate(state.Q(0)).Run(k)
		require.NoError(t, err)
		m := NewMeasure(state.Q(0), MeasureWithRand(testutil.NewSequenceRand(draw).Draw))
		k, err = m.Run(k)
		require.NoError(t, err)
		v, ok := k.Memory().Value("0")
		require.True(t, ok)
		return v.(int), k
	}

	v, k := run(0.3)
	assert.Equal(t, 0, v, "draw below P(0)=0.5 selects 0")
	testutil.RequireAmpsNear(t, []complex128{1, 0}, k.Amplitudes())
	testutil.RequireUnitNorm(t, k.Norm())

	v, k = run(0.7)
	assert.Equal(t, 1, v, "draw above P(0)=0.5 selects 1")
	testutil.RequireAmpsNear(t, []complex128{0, 1}, k.Amplitudes())
	testutil.RequireUnitNorm(t, k.Norm())
}

func TestMeasure_CollapsesEntangledPartner(t *testing.T) {
	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = cnotGate(state.Q(0), state.Q(1)).Run(k)
	require.NoError(t, err)

	m := NewMeasure(state.Q(0), MeasureWithRand(testutil.NewSequenceRand(0.9).Draw))
	k, err = m.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 0, 0, 1}, k.Amplitudes())
}

func TestMeasure_MeasureTo(t *testing.T) {
	src := testutil.NewSequenceRand(0.2)
	m := NewMeasure(state.Q(0), MeasureTo("result"), MeasureWithRand(src.Draw))
	k, err := m.Run(state.ZeroKet(state.Q(0)))
	require.NoError(t, err)
	_, ok := k.Memory().Value("result")
	assert.True(t, ok)
	_, ok = k.Memory().Value("0")
	assert.False(t, ok)
}

func TestMeasure_Evolve(t *testing.T) {
	d := state.ZeroDensity(state.Q(0))
	d, err := hGate(state.Q(0)).Evolve(d)
	require.NoError(t, err)
	m := NewMeasure(state.Q(0), MeasureWithRand(testutil.NewSequenceRand(0.7).Draw))
	d, err = m.Evolve(d)
	require.NoError(t, err)
	v, ok := d.Memory().Value("0")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.InDelta(t, 1, d.Norm(), testutil.Tol)
	assert.InDelta(t, 1, d.Probabilities()[1], testutil.Tol)
}

func TestMeasure_NoGateForm(t *testing.T) {
	m := NewMeasure(state.Q(0))
	_, err := m.AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
	_, err = m.H()
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestMeasure_Relabel(t *testing.T) {
	m := NewMeasure(state.Q(0), MeasureTo("m"))
	r, err := m.Relabel(
		map[state.Qubit]state.Qubit{state.Q(0): state.Q(1)},
		map[state.Addr]state.Addr{"m": "n"},
	)
	require.NoError(t, err)
	rm := r.(*Measure)
	assert.Equal(t, []state.Qubit{state.Q(1)}, rm.Qubits())
	assert.Equal(t, state.Addr("n"), rm.Addr())
}

func TestMeasure_String(t *testing.T) {
	assert.Equal(t, "Measure 0", NewMeasure(state.Q(0)).String())
	assert.Equal(t, "Measure 0 m", NewMeasure(state.Q(0), MeasureTo("m")).String())
}
