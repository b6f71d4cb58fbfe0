package tensor

import (
	"errors"
	"fmt"
	"math/cmplx"
)

// ErrNotDiagonalizable is returned when a continuous power cannot be
// computed because no eigendecomposition is available.
var ErrNotDiagonalizable = errors.New("tensor: matrix power requires an eigendecomposition")

// PowInt returns m raised to a non-negative integer power by repeated
// multiplication.
func PowInt(m Matrix, k int) Matrix {
	if k < 0 {
		panic(fmt.Sprintf("tensor: negative integer power %d", k))
	}
	out := Identity(m.Dim)
	base := m.Clone()
	for k > 0 {
		if k&1 == 1 {
			out = Mul(out, base)
		}
		base = Mul(base, base)
		k >>= 1
	}
	return out
}

// PowDiagonal raises a diagonal matrix to a real power, exponentiating each
// diagonal entry with the principal branch of cmplx.Pow.
func PowDiagonal(m Matrix, t float64) Matrix {
	out := New(m.Dim)
	for i := 0; i < m.Dim; i++ {
		out.Set(i, i, cmplx.Pow(m.At(i, i), complex(t, 0)))
	}
	return out
}

const eigTol = 1e-12

// Pow2x2 raises a 2x2 matrix to a real power via closed-form
// eigendecomposition. Eigenvalues use the principal branch of cmplx.Pow.
// Degenerate matrices are supported only when they are a scalar multiple of
// the identity; otherwise ErrNotDiagonalizable is returned.
func Pow2x2(m Matrix, t float64) (Matrix, error) {
	if m.Dim != 2 {
		return Matrix{}, fmt.Errorf("tensor: Pow2x2 on %dx%d matrix", m.Dim, m.Dim)
	}
	a, b := m.At(0, 0), m.At(0, 1)
	c, d := m.At(1, 0), m.At(1, 1)

	tr := a + d
	det := a*d - b*c
	disc := cmplx.Sqrt(tr*tr - 4*det)
	l1 := (tr + disc) / 2
	l2 := (tr - disc) / 2

	if cmplx.Abs(l1-l2) < eigTol {
		// Degenerate spectrum. A normal (in particular unitary) matrix with
		// a repeated eigenvalue is a scalar matrix.
		if cmplx.Abs(b) > eigTol || cmplx.Abs(c) > eigTol || cmplx.Abs(a-d) > eigTol {
			return Matrix{}, ErrNotDiagonalizable
		}
		out := New(2)
		p := cmplx.Pow(l1, complex(t, 0))
		out.Set(0, 0, p)
		out.Set(1, 1, p)
		return out, nil
	}

	// Eigenvectors from the rows of (A - λI).
	v1 := eigvec2(a, b, c, d, l1)
	v2 := eigvec2(a, b, c, d, l2)

	// V = [v1 v2], result = V diag(λ1^t, λ2^t) V^-1.
	vdet := v1[0]*v2[1] - v2[0]*v1[1]
	if cmplx.Abs(vdet) < eigTol {
		return Matrix{}, ErrNotDiagonalizable
	}
	p1 := cmplx.Pow(l1, complex(t, 0))
	p2 := cmplx.Pow(l2, complex(t, 0))

	inv := [2][2]complex128{
		{v2[1] / vdet, -v2[0] / vdet},
		{-v1[1] / vdet, v1[0] / vdet},
	}
	out := New(2)
	for r := 0; r < 2; r++ {
		vr := [2]complex128{v1[r] * p1, v2[r] * p2}
		for cc := 0; cc < 2; cc++ {
			out.Set(r, cc, vr[0]*inv[0][cc]+vr[1]*inv[1][cc])
		}
	}
	return out, nil
}

// eigvec2 returns an eigenvector of the 2x2 matrix [[a,b],[c,d]] for
// eigenvalue l.
func eigvec2(a, b, c, d, l complex128) [2]complex128 {
	if cmplx.Abs(b) > eigTol {
		return [2]complex128{b, l - a}
	}
	if cmplx.Abs(c) > eigTol {
		return [2]complex128{l - d, c}
	}
	// Diagonal matrix: standard basis vectors.
	if cmplx.Abs(a-l) < cmplx.Abs(d-l) {
		return [2]complex128{1, 0}
	}
	return [2]complex128{0, 1}
}
