package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/state"
	"github.com/qopher/qopher/tensor"
)

func TestStore_Run(t *testing.T) {
	s := NewStore("flag", 42)
	assert.Equal(t, 42, s.Value())
	assert.Empty(t, s.Qubits())
	assert.Equal(t, []state.Addr{"flag"}, s.Addrs())

	k, err := s.Run(state.ZeroKet(state.Q(0)))
	require.NoError(t, err)
	v, ok := k.Memory().Value("flag")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	testutil.RequireAmpsNear(t, []complex128{1, 0}, k.Amplitudes())
}

func TestStore_Evolve(t *testing.T) {
	d, err := NewStore("flag", true).Evolve(state.ZeroDensity(state.Q(0)))
	require.NoError(t, err)
	v, ok := d.Memory().Value("flag")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestStore_NoGateForm(t *testing.T) {
	_, err := NewStore("a", 1).AsGate()
	assert.ErrorIs(t, err, ErrNotRepresentable)
	_, err = NewStore("a", 1).H()
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestIf_AppliesWhenMatch(t *testing.T) {
	c := NewIf(xGate(state.Q(0)), "c", IfExpecting(1))
	k := state.ZeroKet(state.Q(0)).Store(state.Memory{"c": 1})
	k, err := c.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 1}, k.Amplitudes())
}

func TestIf_SkipsWhenMismatch(t *testing.T) {
	c := NewIf(xGate(state.Q(0)), "c", IfExpecting(1))
	k := state.ZeroKet(state.Q(0)).Store(state.Memory{"c": 0})
	k, err := c.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{1, 0}, k.Amplitudes())
}

func TestIf_MissingKeyIsError(t *testing.T) {
	c := NewIf(xGate(state.Q(0)), "c")
	_, err := c.Run(state.ZeroKet(state.Q(0)))
	assert.ErrorIs(t, err, ErrMissingMemoryKey)

	_, err = c.Evolve(state.ZeroDensity(state.Q(0)))
	assert.ErrorIs(t, err, ErrMissingMemoryKey)
}

func TestIf_BoolIntEquivalence(t *testing.T) {
	// Measurement outcomes are ints; conditions written as booleans must
	// still match.
	c := NewIf(xGate(state.Q(0)), "c") // expects true by default
	k := state.ZeroKet(state.Q(0)).Store(state.Memory{"c": 1})
	k, err := c.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 1}, k.Amplitudes())

	c = NewIf(xGate(state.Q(0)), "c", IfExpecting(0))
	k = state.ZeroKet(state.Q(0)).Store(state.Memory{"c": false})
	k, err = c.Run(k)
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 1}, k.Amplitudes())
}

func TestIf_Accessors(t *testing.T) {
	inner := xGate(state.Q(0))
	c := NewIf(inner, "c", IfExpecting(1))
	assert.Same(t, inner, c.Inner())
	assert.Equal(t, state.Addr("c"), c.Key())
	assert.Equal(t, 1, c.Expected())
	assert.Equal(t, []state.Qubit{state.Q(0)}, c.Qubits())
	assert.Equal(t, []state.Addr{"c"}, c.Addrs())
}

func TestIf_H_ConjugatesInner(t *testing.T) {
	c := NewIf(sType.MustNew(nil, state.Q(0)), "c")
	inv, err := c.H()
	require.NoError(t, err)
	ci := inv.(*If)
	op, err := ci.Inner().(*DenseGate).Operator()
	require.NoError(t, err)
	assert.Equal(t, complex(0, -1), op.At(1, 1))
}

func TestIf_Evolve(t *testing.T) {
	c := NewIf(xGate(state.Q(0)), "c", IfExpecting(1))
	d := state.ZeroDensity(state.Q(0)).Store(state.Memory{"c": 1})
	d, err := c.Evolve(d)
	require.NoError(t, err)
	assert.InDelta(t, 1, d.Probabilities()[1], testutil.Tol)
}

func TestBarrier_IsIdentity(t *testing.T) {
	b, err := NewBarrier(state.Q(0), state.Q(1))
	require.NoError(t, err)
	k := state.ZeroKet(state.Q(0), state.Q(1))
	got, err := b.Run(k)
	require.NoError(t, err)
	assert.Same(t, k, got)

	g, err := b.AsGate()
	require.NoError(t, err)
	op, err := g.Operator()
	require.NoError(t, err)
	testutil.RequireMatrixNear(t, tensor.Identity(4), op)

	adj, err := b.H()
	require.NoError(t, err)
	assert.Same(t, b, adj)
}

func TestBarrier_DuplicateQubits(t *testing.T) {
	_, err := NewBarrier(state.Q(0), state.Q(0))
	assert.Error(t, err)
}

func TestClassical_Strings(t *testing.T) {
	assert.Equal(t, "Store flag <- 7", NewStore("flag", 7).String())
	assert.Equal(t, "If c == 1: X 0", NewIf(xGate(state.Q(0)), "c", IfExpecting(1)).String())
	b, err := NewBarrier(state.Q(0), state.Q(1))
	require.NoError(t, err)
	assert.Equal(t, "Barrier 0 1", b.String())
}
