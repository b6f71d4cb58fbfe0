package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
)

func TestStateDisplay_SnapshotsAmplitudes(t *testing.T) {
	d := NewStateDisplay("snap")
	k := state.ZeroKet(state.Q(0))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = d.Run(k)
	require.NoError(t, err)

	v, ok := k.Memory().Value("snap")
	require.True(t, ok)
	amps := v.([]complex128)
	testutil.RequireAmpsNear(t, k.Amplitudes(), amps)

	// The snapshot is a copy, not an alias.
	amps[0] = 99
	assert.NotEqual(t, complex128(99), k.Amplitudes()[0])
}

func TestStateDisplay_LeavesStateUntouched(t *testing.T) {
	k := state.ZeroKet(state.Q(0))
	got, err := NewStateDisplay("snap").Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, k.Amplitudes(), got.Amplitudes())
}

func TestProbabilityDisplay(t *testing.T) {
	d := NewProbabilityDisplay("probs")
	k := state.ZeroKet(state.Q(0))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = d.Run(k)
	require.NoError(t, err)

	v, ok := k.Memory().Value("probs")
	require.True(t, ok)
	testutil.RequireProbsNear(t, []float64{0.5, 0.5}, v.([]float64))
}

func TestProbabilityDisplay_Evolve(t *testing.T) {
	den := state.ZeroDensity(state.Q(0))
	den, err := hGate(state.Q(0)).Evolve(den)
	require.NoError(t, err)
	den, err = NewProbabilityDisplay("probs").Evolve(den)
	require.NoError(t, err)
	v, ok := den.Memory().Value("probs")
	require.True(t, ok)
	testutil.RequireProbsNear(t, []float64{0.5, 0.5}, v.([]float64))
}

func TestDensityDisplay_ReducedState(t *testing.T) {
	d := NewDensityDisplay("rho", state.Q(0))
	k := state.ZeroKet(state.Q(0), state.Q(1))
	k, err := hGate(state.Q(0)).Run(k)
	require.NoError(t, err)
	k, err = cnotGate(state.Q(0), state.Q(1)).Run(k)
	require.NoError(t, err)
	k, err = d.Run(k)
	require.NoError(t, err)

	v, ok := k.Memory().Value("rho")
	require.True(t, ok)
	reduced := v.(*state.Density)
	assert.Equal(t, []state.Qubit{state.Q(0)}, reduced.Qubits())
	testutil.RequireProbsNear(t, []float64{0.5, 0.5}, reduced.Probabilities())
}

func TestDensityDisplay_UnknownQubit(t *testing.T) {
	d := NewDensityDisplay("rho", state.Q(9))
	_, err := d.Run(state.ZeroKet(state.Q(0)))
	assert.Error(t, err)
}

func TestDisplay_NoGateForm(t *testing.T) {
	d := NewStateDisplay("snap")
	_, err := d.AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
	_, err = d.H()
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestDisplay_Relabel(t *testing.T) {
	d := NewDensityDisplay("rho", state.Q(0))
	r, err := d.Relabel(
		map[state.Qubit]state.Qubit{state.Q(0): state.Q(1)},
		map[state.Addr]state.Addr{"rho": "sigma"},
	)
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(1)}, r.Qubits())
	assert.Equal(t, []state.Addr{"sigma"}, r.Addrs())
}

func TestDisplay_String(t *testing.T) {
	assert.Equal(t, "StateDisplay snap", NewStateDisplay("snap").String())
	assert.Equal(t, "DensityDisplay rho 0 1", NewDensityDisplay("rho", state.Q(0), state.Q(1)).String())
}
