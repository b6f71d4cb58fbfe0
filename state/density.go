package state

import (
	"fmt"
	"slices"

	"github.com/qopher/qopher/tensor"
)

// Density is the mixed-state matrix representation: a 2^n x 2^n density
// operator over an ordered qubit list, plus classical memory. Like Ket it
// is immutable; the matrix buffer is shared between derived states and
// must not be written to.
type Density struct {
	qubits []Qubit
	mat    tensor.Matrix
	mem    Memory
}

// NewDensity builds a density state from a matrix.
func NewDensity(mat tensor.Matrix, qubits []Qubit, mem Memory) (*Density, error) {
	if mat.Dim != 1<<len(qubits) {
		return nil, fmt.Errorf("state: %dx%d density matrix for %d qubits", mat.Dim, mat.Dim, len(qubits))
	}
	if mem == nil {
		mem = Memory{}
	}
	return &Density{qubits: slices.Clone(qubits), mat: mat, mem: mem}, nil
}

// ZeroDensity returns the density matrix of |0...0⟩.
func ZeroDensity(qubits ...Qubit) *Density {
	return ZeroKet(qubits...).AsDensity()
}

// Qubits returns the ordered qubit list. The returned slice must not be
// modified.
func (d *Density) Qubits() []Qubit {
	return d.qubits
}

// QubitCount returns the number of qubits.
func (d *Density) QubitCount() int {
	return len(d.qubits)
}

// Matrix returns the underlying density matrix. It must not be modified.
func (d *Density) Matrix() tensor.Matrix {
	return d.mat
}

// Memory returns the classical memory mapping of this state.
func (d *Density) Memory() Memory {
	return d.mem
}

// Store returns a new density state with the given classical memory
// updates applied.
func (d *Density) Store(updates Memory) *Density {
	return &Density{qubits: d.qubits, mat: d.mat, mem: d.mem.With(updates)}
}

// WithMatrix returns a new density state over the same qubits and memory
// with a replaced matrix.
func (d *Density) WithMatrix(mat tensor.Matrix) *Density {
	return &Density{qubits: d.qubits, mat: mat, mem: d.mem}
}

// Norm returns the trace of the density matrix. For a normalized state
// this is 1; after a projection channel it is the branch probability.
func (d *Density) Norm() float64 {
	return real(tensor.Trace(d.mat))
}

// Normalize returns a new density state scaled to unit trace.
func (d *Density) Normalize() *Density {
	tr := complex(d.Norm(), 0)
	out := tensor.New(d.mat.Dim)
	for i, v := range d.mat.Data {
		out.Data[i] = v / tr
	}
	return d.WithMatrix(out)
}

// Probabilities returns the diagonal of the density matrix as real
// probabilities per basis state.
func (d *Density) Probabilities() []float64 {
	diag := tensor.Diagonal(d.mat)
	probs := make([]float64, len(diag))
	for i, v := range diag {
		probs[i] = real(v)
	}
	return probs
}

// Partial traces out every qubit not in keep, returning the reduced
// density state over keep in the given order. Every kept qubit must be
// present in the state.
func (d *Density) Partial(keep []Qubit) (*Density, error) {
	for _, q := range keep {
		if IndexQubit(d.qubits, q) < 0 {
			return nil, fmt.Errorf("state: qubit %q not in state", q)
		}
	}
	order := slices.Clone(keep)
	for _, q := range d.qubits {
		if IndexQubit(keep, q) < 0 {
			order = append(order, q)
		}
	}
	perm, err := d.Permute(order)
	if err != nil {
		return nil, err
	}
	traced := len(d.qubits) - len(keep)
	dim := 1 << len(keep)
	out := tensor.New(dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			var sum complex128
			for t := 0; t < 1<<traced; t++ {
				sum += perm.mat.At(r<<traced|t, c<<traced|t)
			}
			out.Data[r*dim+c] = sum
		}
	}
	return &Density{qubits: slices.Clone(keep), mat: out, mem: d.mem}, nil
}

// Permute returns a new density state with its qubits reordered to
// newOrder, which must be a permutation of the current qubit list.
func (d *Density) Permute(newOrder []Qubit) (*Density, error) {
	perm, err := permutation(d.qubits, newOrder)
	if err != nil {
		return nil, err
	}
	return &Density{
		qubits: slices.Clone(newOrder),
		mat:    tensor.PermuteQubits(d.mat, perm),
		mem:    d.mem,
	}, nil
}
