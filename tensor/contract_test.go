package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulVec_XOnFirstQubit(t *testing.T) {
	// |00> with X on position 0 becomes |10>.
	vec := []complex128{1, 0, 0, 0}
	out := MulVec(pauliX(), []int{0}, 2, vec)
	assert.Equal(t, []complex128{0, 0, 1, 0}, out)
}

func TestMulVec_XOnSecondQubit(t *testing.T) {
	vec := []complex128{1, 0, 0, 0}
	out := MulVec(pauliX(), []int{1}, 2, vec)
	assert.Equal(t, []complex128{0, 1, 0, 0}, out)
}

func TestMulVec_MatchesFullOperator(t *testing.T) {
	// Applying H at position 1 of a 2-qubit state must agree with
	// multiplying by I⊗H.
	vec := []complex128{0.5, 0.5i, -0.5, 0.5}
	full := Kron(Identity(2), hadamard())
	want := make([]complex128, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want[r] += full.At(r, c) * vec[c]
		}
	}
	got := MulVec(hadamard(), []int{1}, 2, vec)
	for i := range want {
		assert.InDelta(t, 0, math.Hypot(real(want[i]-got[i]), imag(want[i]-got[i])), 1e-12)
	}
}

func TestMulVec_TwoQubitOperator(t *testing.T) {
	// CNOT with control at position 1 and target at position 0: |01> -> |11>.
	cnot := FromRows([][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	vec := []complex128{0, 1, 0, 0}
	out := MulVec(cnot, []int{1, 0}, 2, vec)
	assert.Equal(t, []complex128{0, 0, 0, 1}, out)
}

func TestMulVec_PreservesInput(t *testing.T) {
	vec := []complex128{1, 0}
	_ = MulVec(pauliX(), []int{0}, 1, vec)
	assert.Equal(t, []complex128{1, 0}, vec)
}

func TestMulVec_PanicsOnBadLengths(t *testing.T) {
	assert.Panics(t, func() { MulVec(pauliX(), []int{0, 1}, 2, make([]complex128, 4)) })
	assert.Panics(t, func() { MulVec(pauliX(), []int{0}, 2, make([]complex128, 3)) })
}

func TestMulMat_Conjugation(t *testing.T) {
	// X ρ X† on qubit 0 of |00><00| gives |10><10|.
	rho := New(4)
	rho.Set(0, 0, 1)
	x := pauliX()
	out := MulMatCols(Conj(x), []int{0}, MulMat(x, []int{0}, rho))
	want := New(4)
	want.Set(2, 2, 1)
	assert.True(t, EqualTol(out, want, 1e-12))
}

func TestMulMat_PreservesTrace(t *testing.T) {
	rho := New(2)
	rho.Set(0, 0, 0.25)
	rho.Set(1, 1, 0.75)
	h := hadamard()
	out := MulMatCols(Conj(h), []int{0}, MulMat(h, []int{0}, rho))
	assert.InDelta(t, 1, real(Trace(out)), 1e-12)
}

func TestPermuteVec_Swap(t *testing.T) {
	// |01> permuted with [1,0] becomes |10>.
	vec := []complex128{0, 1, 0, 0}
	out := PermuteVec(vec, []int{1, 0})
	assert.Equal(t, []complex128{0, 0, 1, 0}, out)
}

func TestPermuteVec_RoundTrip(t *testing.T) {
	vec := []complex128{1, 2, 3, 4, 5, 6, 7, 8}
	out := PermuteVec(PermuteVec(vec, []int{2, 0, 1}), []int{1, 2, 0})
	assert.Equal(t, vec, out)
}

func TestNorm2(t *testing.T) {
	assert.InDelta(t, 1, Norm2([]complex128{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)}), 1e-12)
	assert.InDelta(t, 0, Norm2(nil), 1e-12)
}
