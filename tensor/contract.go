package tensor

import "fmt"

// MulVec contracts a k-qubit operator onto an n-qubit state vector.
//
// positions lists, for each operator qubit in order, its position within
// the vector's qubit ordering (MSB-first). The result is a fresh vector of
// the same length. Semantics match standard array-index contraction: the
// operator's column indices are summed against the vector indices at the
// given positions.
func MulVec(op Matrix, positions []int, n int, vec []complex128) []complex128 {
	k := op.QubitCount()
	if len(positions) != k {
		panic(fmt.Sprintf("tensor: %d positions for %d-qubit operator", len(positions), k))
	}
	if len(vec) != 1<<n {
		panic(fmt.Sprintf("tensor: vector length %d, want %d", len(vec), 1<<n))
	}
	out := make([]complex128, len(vec))
	sub := 1 << k
	for i := range vec {
		s := extractBits(i, positions, n)
		var acc complex128
		row := s * sub
		for sp := 0; sp < sub; sp++ {
			e := op.Data[row+sp]
			if e == 0 {
				continue
			}
			acc += e * vec[depositBits(i, positions, sp, n)]
		}
		out[i] = acc
	}
	return out
}

// MulMat contracts a k-qubit operator onto the row-index group of an
// n-qubit matrix: each column of target is treated as a state vector and
// the operator is applied at the given positions. This realizes left
// multiplication by the operator embedded (with identity padding) into the
// target's full space.
func MulMat(op Matrix, positions []int, target Matrix) Matrix {
	n := target.QubitCount()
	out := New(target.Dim)
	col := make([]complex128, target.Dim)
	for c := 0; c < target.Dim; c++ {
		for r := 0; r < target.Dim; r++ {
			col[r] = target.At(r, c)
		}
		res := MulVec(op, positions, n, col)
		for r := 0; r < target.Dim; r++ {
			out.Set(r, c, res[r])
		}
	}
	return out
}

// MulMatCols contracts a k-qubit operator onto the column-index group of an
// n-qubit matrix: each row of target is treated as a vector. Combined with
// MulMat this expresses superoperator conjugation, e.g.
// MulMatCols(Conj(U), p, MulMat(U, p, rho)) computes U ρ U†.
func MulMatCols(op Matrix, positions []int, target Matrix) Matrix {
	n := target.QubitCount()
	out := New(target.Dim)
	for r := 0; r < target.Dim; r++ {
		row := target.Data[r*target.Dim : (r+1)*target.Dim]
		res := MulVec(op, positions, n, row)
		copy(out.Data[r*target.Dim:(r+1)*target.Dim], res)
	}
	return out
}

// extractBits gathers the bits of idx at the given positions (MSB-first)
// into a k-bit integer, first position most significant.
func extractBits(idx int, positions []int, n int) int {
	s := 0
	for _, p := range positions {
		s = s<<1 | (idx>>(n-1-p))&1
	}
	return s
}

// depositBits returns idx with the bits at the given positions replaced by
// the bits of s, first position taking the most significant bit of s.
func depositBits(idx int, positions []int, s int, n int) int {
	k := len(positions)
	for j, p := range positions {
		bit := (s >> (k - 1 - j)) & 1
		mask := 1 << (n - 1 - p)
		idx = (idx &^ mask) | bit<<(n-1-p)
	}
	return idx
}

// PermuteVec reorders the qubit indices of a state vector. perm[k] gives,
// for each output qubit position k, the source position in the input
// ordering, mirroring PermuteQubits for operators.
func PermuteVec(vec []complex128, perm []int) []complex128 {
	n := 0
	for 1<<n < len(vec) {
		n++
	}
	if 1<<n != len(vec) || len(perm) != n {
		panic(fmt.Sprintf("tensor: vector length %d with %d-element permutation", len(vec), len(perm)))
	}
	out := make([]complex128, len(vec))
	for iNew := range vec {
		out[iNew] = vec[permuteIndex(iNew, perm, n)]
	}
	return out
}

// Norm2 returns the squared Euclidean norm of a vector.
func Norm2(vec []complex128) float64 {
	var acc float64
	for _, v := range vec {
		acc += real(v)*real(v) + imag(v)*imag(v)
	}
	return acc
}
