package tensor

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

// Matrix is a dense square complex matrix in row-major order.
//
// The zero value is not usable; construct with New, Identity, or FromRows.
type Matrix struct {
	// Dim is the number of rows (and columns).
	Dim int

	// Data holds Dim*Dim entries, row-major.
	Data []complex128
}

// New returns a zero matrix of the given dimension.
func New(dim int) Matrix {
	return Matrix{Dim: dim, Data: make([]complex128, dim*dim)}
}

// Identity returns the identity matrix of the given dimension.
func Identity(dim int) Matrix {
	m := New(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must have the same
// length as the number of rows.
func FromRows(rows [][]complex128) Matrix {
	dim := len(rows)
	m := New(dim)
	for r, row := range rows {
		if len(row) != dim {
			panic(fmt.Sprintf("tensor: row %d has %d entries, want %d", r, len(row), dim))
		}
		copy(m.Data[r*dim:(r+1)*dim], row)
	}
	return m
}

// At returns the entry at row r, column c.
func (m Matrix) At(r, c int) complex128 {
	return m.Data[r*m.Dim+c]
}

// Set assigns the entry at row r, column c.
func (m Matrix) Set(r, c int, v complex128) {
	m.Data[r*m.Dim+c] = v
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := Matrix{Dim: m.Dim, Data: make([]complex128, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// QubitCount returns n such that Dim == 2^n. Panics if Dim is not a power
// of two.
func (m Matrix) QubitCount() int {
	if m.Dim <= 0 || m.Dim&(m.Dim-1) != 0 {
		panic(fmt.Sprintf("tensor: dimension %d is not a power of two", m.Dim))
	}
	return bits.TrailingZeros(uint(m.Dim))
}

// Mul returns the matrix product a*b.
func Mul(a, b Matrix) Matrix {
	if a.Dim != b.Dim {
		panic(fmt.Sprintf("tensor: dimension mismatch %d != %d", a.Dim, b.Dim))
	}
	dim := a.Dim
	out := New(dim)
	for r := 0; r < dim; r++ {
		for k := 0; k < dim; k++ {
			av := a.Data[r*dim+k]
			if av == 0 {
				continue
			}
			for c := 0; c < dim; c++ {
				out.Data[r*dim+c] += av * b.Data[k*dim+c]
			}
		}
	}
	return out
}

// Kron returns the Kronecker product a⊗b.
func Kron(a, b Matrix) Matrix {
	dim := a.Dim * b.Dim
	out := New(dim)
	for ar := 0; ar < a.Dim; ar++ {
		for ac := 0; ac < a.Dim; ac++ {
			av := a.At(ar, ac)
			if av == 0 {
				continue
			}
			for br := 0; br < b.Dim; br++ {
				for bc := 0; bc < b.Dim; bc++ {
					out.Set(ar*b.Dim+br, ac*b.Dim+bc, av*b.At(br, bc))
				}
			}
		}
	}
	return out
}

// ConjTranspose returns the Hermitian conjugate of m.
func ConjTranspose(m Matrix) Matrix {
	out := New(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			out.Set(c, r, cmplx.Conj(m.At(r, c)))
		}
	}
	return out
}

// Conj returns the element-wise complex conjugate of m.
func Conj(m Matrix) Matrix {
	out := New(m.Dim)
	for i, v := range m.Data {
		out.Data[i] = cmplx.Conj(v)
	}
	return out
}

// Diagonal returns the main diagonal of m.
func Diagonal(m Matrix) []complex128 {
	d := make([]complex128, m.Dim)
	for i := 0; i < m.Dim; i++ {
		d[i] = m.At(i, i)
	}
	return d
}

// Trace returns the trace of m.
func Trace(m Matrix) complex128 {
	var t complex128
	for i := 0; i < m.Dim; i++ {
		t += m.At(i, i)
	}
	return t
}

// EqualTol reports whether a and b have the same dimension and all entries
// agree within the absolute tolerance tol.
func EqualTol(a, b Matrix, tol float64) bool {
	if a.Dim != b.Dim {
		return false
	}
	for i := range a.Data {
		if cmplx.Abs(a.Data[i]-b.Data[i]) > tol {
			return false
		}
	}
	return true
}

// EqualUpToPhase reports whether a and b agree within tol after factoring
// out a single global phase.
func EqualUpToPhase(a, b Matrix, tol float64) bool {
	if a.Dim != b.Dim {
		return false
	}
	// Find the first entry of significant magnitude to fix the phase.
	var phase complex128 = 1
	found := false
	for i := range a.Data {
		if cmplx.Abs(a.Data[i]) > tol && cmplx.Abs(b.Data[i]) > tol {
			phase = a.Data[i] / b.Data[i]
			if math.Abs(cmplx.Abs(phase)-1) > tol {
				return false
			}
			found = true
			break
		}
	}
	if !found {
		return EqualTol(a, b, tol)
	}
	for i := range a.Data {
		if cmplx.Abs(a.Data[i]-phase*b.Data[i]) > tol {
			return false
		}
	}
	return true
}

// PermuteQubits reorders the qubit indices of an operator. perm[k] gives,
// for each output qubit position k, the source position in the input
// ordering. Row and column index groups are permuted identically, so the
// result equals constructing the operator with its qubit list reordered.
func PermuteQubits(m Matrix, perm []int) Matrix {
	n := m.QubitCount()
	if len(perm) != n {
		panic(fmt.Sprintf("tensor: permutation length %d, want %d", len(perm), n))
	}
	out := New(m.Dim)
	for rNew := 0; rNew < m.Dim; rNew++ {
		rOld := permuteIndex(rNew, perm, n)
		for cNew := 0; cNew < m.Dim; cNew++ {
			cOld := permuteIndex(cNew, perm, n)
			out.Set(rNew, cNew, m.At(rOld, cOld))
		}
	}
	return out
}

// permuteIndex maps a basis index under a qubit permutation: bit k of the
// new index (MSB-first) is placed at position perm[k] of the old index.
func permuteIndex(idx int, perm []int, n int) int {
	old := 0
	for k := 0; k < n; k++ {
		bit := (idx >> (n - 1 - k)) & 1
		old |= bit << (n - 1 - perm[k])
	}
	return old
}
