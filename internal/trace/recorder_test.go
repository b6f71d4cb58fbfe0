package trace

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/gates"
	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() func() time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestRecorder_RunRecordsSteps(t *testing.T) {
	s := openTestStore(t)
	src := testutil.NewSequenceRand(0.3, 0.3)
	circ := ops.MustCircuit(
		gates.H(state.Q(0)),
		gates.CNot(state.Q(0), state.Q(1)),
		ops.NewMeasure(state.Q(0), ops.MeasureTo("m0"), ops.MeasureWithRand(src.Draw)),
		ops.NewMeasure(state.Q(1), ops.MeasureTo("m1"), ops.MeasureWithRand(src.Draw)),
	)
	rec := NewRecorder(circ, s,
		WithTokens(NewFixedGenerator("run-1")),
		WithCircuitName("bell"),
		WithLogger(quietLogger()),
		WithNow(fixedNow()),
	)

	k, err := rec.Run(state.ZeroKet(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	v, ok := k.Memory().Value("m0")
	require.True(t, ok)
	assert.Equal(t, 0, v)

	ctx := context.Background()
	r, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "bell", r.Circuit)
	assert.Equal(t, BackendName, r.Backend)
	assert.Equal(t, "run", r.Mode)
	assert.True(t, r.FinishedAt.After(r.StartedAt))

	steps, err := s.Steps(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, "H 0", steps[0].Op)
	assert.Equal(t, "0", steps[0].Qubits)
	assert.Equal(t, "CNot 0 1", steps[1].Op)
	assert.Equal(t, "0,1", steps[1].Qubits)
	assert.Equal(t, "Measure 0 m0", steps[2].Op)
	assert.Equal(t, "Measure 1 m1", steps[3].Op)
	for i, st := range steps {
		assert.Equal(t, int64(i+1), st.Seq)
		assert.InDelta(t, 1, st.Norm, testutil.Tol, "unitary and measurement steps keep unit norm")
	}
}

func TestRecorder_EvolveMode(t *testing.T) {
	s := openTestStore(t)
	circ := ops.MustCircuit(gates.H(state.Q(0)))
	rec := NewRecorder(circ, s,
		WithTokens(NewFixedGenerator("run-1")),
		WithLogger(quietLogger()),
	)

	d, err := rec.Evolve(state.ZeroDensity(state.Q(0)))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Probabilities()[0], testutil.Tol)

	r, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "evolve", r.Mode)
	assert.Equal(t, "ok", r.Status)
}

func TestRecorder_FailedStepMarksRun(t *testing.T) {
	s := openTestStore(t)
	// If on an unset key fails mid-circuit.
	circ := ops.MustCircuit(
		gates.X(state.Q(0)),
		ops.NewIf(gates.X(state.Q(0)), "missing"),
	)
	rec := NewRecorder(circ, s,
		WithTokens(NewFixedGenerator("run-1")),
		WithCircuitName("bad"),
		WithLogger(quietLogger()),
	)

	_, err := rec.Run(state.ZeroKet(state.Q(0)))
	require.ErrorIs(t, err, ops.ErrMissingMemoryKey)

	r, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "error", r.Status)
	assert.Contains(t, r.Error, "missing")

	// The step before the failure was still recorded.
	steps, err := s.Steps(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "X 0", steps[0].Op)
}

func TestRecorder_FactoryBindsStore(t *testing.T) {
	s := openTestStore(t)
	factory := Factory(s, WithTokens(NewFixedGenerator("run-1")), WithLogger(quietLogger()))
	sim := factory(ops.MustCircuit(gates.X(state.Q(0))))

	k, err := sim.Run(state.ZeroKet(state.Q(0)))
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, []complex128{0, 1}, k.Amplitudes())

	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].Token)
}

func TestRecorder_MatchesDirectExecution(t *testing.T) {
	s := openTestStore(t)
	circ := ops.MustCircuit(
		gates.H(state.Q(0)),
		gates.CNot(state.Q(0), state.Q(1)),
	)
	rec := NewRecorder(circ, s,
		WithTokens(UUIDv7Generator{}),
		WithLogger(quietLogger()),
	)

	direct, err := circ.Run(state.ZeroKet(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	recorded, err := rec.Run(state.ZeroKet(state.Q(0), state.Q(1)))
	require.NoError(t, err)
	testutil.RequireAmpsNear(t, direct.Amplitudes(), recorded.Amplitudes())
}
