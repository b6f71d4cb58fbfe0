package expr

import (
	"fmt"
	"sort"

	"github.com/qopher/qopher/tensor"
)

// Matrix is a square matrix of Values: the symbolic operator template of a
// gate family. Matrices are treated as immutable once built.
type Matrix struct {
	Dim   int
	Elems []Value // row-major, len Dim*Dim
}

// NewMatrix returns a Dim x Dim matrix filled with Zero.
func NewMatrix(dim int) Matrix {
	elems := make([]Value, dim*dim)
	for i := range elems {
		elems[i] = Zero
	}
	return Matrix{Dim: dim, Elems: elems}
}

// MatrixFromRows builds a symbolic matrix from row slices.
func MatrixFromRows(rows [][]Value) Matrix {
	dim := len(rows)
	m := NewMatrix(dim)
	for r, row := range rows {
		if len(row) != dim {
			panic(fmt.Sprintf("expr: row %d has %d entries, want %d", r, len(row), dim))
		}
		copy(m.Elems[r*dim:(r+1)*dim], row)
	}
	return m
}

// Eye returns the symbolic identity matrix.
func Eye(dim int) Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Elems[i*dim+i] = One
	}
	return m
}

// BlockDiag returns the block-diagonal matrix diag(a, b).
func BlockDiag(a, b Matrix) Matrix {
	dim := a.Dim + b.Dim
	m := NewMatrix(dim)
	for r := 0; r < a.Dim; r++ {
		for c := 0; c < a.Dim; c++ {
			m.Elems[r*dim+c] = a.Elems[r*a.Dim+c]
		}
	}
	for r := 0; r < b.Dim; r++ {
		for c := 0; c < b.Dim; c++ {
			m.Elems[(a.Dim+r)*dim+(a.Dim+c)] = b.Elems[r*b.Dim+c]
		}
	}
	return m
}

// At returns the entry at row r, column c.
func (m Matrix) At(r, c int) Value {
	return m.Elems[r*m.Dim+c]
}

// Subs substitutes values for symbols in every entry, returning a new
// matrix.
func (m Matrix) Subs(vals map[string]Value) Matrix {
	out := Matrix{Dim: m.Dim, Elems: make([]Value, len(m.Elems))}
	for i, e := range m.Elems {
		out.Elems[i] = Subs(e, vals)
	}
	return out
}

// Symbols returns the sorted free symbols across all entries.
func (m Matrix) Symbols() []string {
	set := map[string]struct{}{}
	for _, e := range m.Elems {
		for _, s := range Symbols(e) {
			set[s] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval lowers the matrix to a numeric tensor.Matrix. It fails if any entry
// still has free symbols.
func (m Matrix) Eval() (tensor.Matrix, error) {
	out := tensor.New(m.Dim)
	for i, e := range m.Elems {
		v, err := Eval(e)
		if err != nil {
			return tensor.Matrix{}, fmt.Errorf("expr: entry %d: %w", i, err)
		}
		out.Data[i] = v
	}
	return out, nil
}
