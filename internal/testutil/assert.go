package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/tensor"
)

// Tol is the default numeric tolerance for state and operator
// comparisons in tests.
const Tol = 1e-8

// RequireAmpsNear fails the test unless got matches want elementwise
// within Tol.
func RequireAmpsNear(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaf(t, 0, cmplx.Abs(want[i]-got[i]), Tol,
			"amplitude %d: want %v, got %v", i, want[i], got[i])
	}
}

// RequireMatrixNear fails the test unless got matches want within Tol.
func RequireMatrixNear(t *testing.T, want, got tensor.Matrix) {
	t.Helper()
	require.Equal(t, want.Dim, got.Dim, "matrix dimension")
	require.Truef(t, tensor.EqualTol(want, got, Tol),
		"matrices differ beyond tolerance:\nwant %v\ngot  %v", want.Data, got.Data)
}

// RequireMatrixNearUpToPhase fails the test unless got equals want up
// to a global phase factor.
func RequireMatrixNearUpToPhase(t *testing.T, want, got tensor.Matrix) {
	t.Helper()
	require.Equal(t, want.Dim, got.Dim, "matrix dimension")
	require.Truef(t, tensor.EqualUpToPhase(want, got, Tol),
		"matrices differ beyond global phase:\nwant %v\ngot  %v", want.Data, got.Data)
}

// RequireProbsNear fails the test unless got matches want within Tol.
func RequireProbsNear(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaf(t, want[i], got[i], Tol, "probability %d", i)
	}
}

// RequireUnitNorm fails the test unless the norm is 1 within Tol.
func RequireUnitNorm(t *testing.T, norm float64) {
	t.Helper()
	require.InDelta(t, 1.0, norm, Tol)
}

// NearZero reports whether x is within Tol of zero.
func NearZero(x float64) bool {
	return math.Abs(x) < Tol
}
