package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
)

func TestNewMoment_DisjointChildren(t *testing.T) {
	m, err := NewMoment([]Operation{
		xGate(state.Q(0)),
		hGate(state.Q(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, []state.Qubit{state.Q(0), state.Q(1)}, m.Qubits())
}

func TestNewMoment_SharedQubitRejected(t *testing.T) {
	_, err := NewMoment([]Operation{
		xGate(state.Q(0)),
		cnotGate(state.Q(1), state.Q(0)),
	})
	assert.ErrorIs(t, err, ErrNonDisjointMoment)
}

func TestMoment_RunAppliesAllChildren(t *testing.T) {
	m, err := NewMoment([]Operation{
		xGate(state.Q(0)),
		xGate(state.Q(1)),
	})
	require.NoError(t, err)
	k, err := m.Run(state.ZeroKet(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 0, 0, 1}, k.Amplitudes())
}

func TestMoment_H_StaysDisjoint(t *testing.T) {
	m, err := NewMoment([]Operation{
		sType.MustNew(nil, state.Q(0)),
		hGate(state.Q(1)),
	})
	require.NoError(t, err)
	inv, err := m.H()
	require.NoError(t, err)
	_, ok := inv.(*Moment)
	assert.True(t, ok)
}

func TestMoment_Relabel_ChecksDisjointness(t *testing.T) {
	m, err := NewMoment([]Operation{xGate(state.Q(0)), xGate(state.Q(1))})
	require.NoError(t, err)
	r, err := m.Relabel(map[state.Qubit]state.Qubit{
		state.Q(0): state.Q(3),
		state.Q(1): state.Q(4),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []state.Qubit{state.Q(3), state.Q(4)}, r.Qubits())
}

func TestMoment_String(t *testing.T) {
	m, err := NewMoment([]Operation{xGate(state.Q(0))})
	require.NoError(t, err)
	assert.Equal(t, "Moment\n    X 0", m.String())
}
