package state

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/qopher/qopher/tensor"
)

// Ket is the pure-state vector representation of a quantum state: 2^n
// complex amplitudes over an ordered list of n qubits, plus classical
// memory. Basis indexing is most-significant-bit-first: the first qubit in
// the list owns the highest bit of a basis index.
//
// Kets are immutable; every operation returns a new Ket. Amplitude slices
// are shared between derived kets and must not be written to.
type Ket struct {
	qubits []Qubit
	amps   []complex128
	mem    Memory
}

// NewKet builds a ket from amplitudes. The amplitude count must be 2^n for
// n qubits.
func NewKet(amps []complex128, qubits []Qubit, mem Memory) (*Ket, error) {
	if len(amps) != 1<<len(qubits) {
		return nil, fmt.Errorf("state: %d amplitudes for %d qubits", len(amps), len(qubits))
	}
	if mem == nil {
		mem = Memory{}
	}
	return &Ket{qubits: slices.Clone(qubits), amps: amps, mem: mem}, nil
}

// ZeroKet returns the all-zeros computational basis state |0...0⟩ over the
// given qubits.
func ZeroKet(qubits ...Qubit) *Ket {
	amps := make([]complex128, 1<<len(qubits))
	amps[0] = 1
	k, _ := NewKet(amps, qubits, nil)
	return k
}

// Qubits returns the ordered qubit list. The returned slice must not be
// modified.
func (k *Ket) Qubits() []Qubit {
	return k.qubits
}

// QubitCount returns the number of qubits.
func (k *Ket) QubitCount() int {
	return len(k.qubits)
}

// Amplitudes returns the underlying amplitude vector. The returned slice
// must not be modified.
func (k *Ket) Amplitudes() []complex128 {
	return k.amps
}

// Memory returns the classical memory mapping of this state.
func (k *Ket) Memory() Memory {
	return k.mem
}

// Store returns a new ket with the given classical memory updates applied.
// The quantum amplitudes are shared with the receiver.
func (k *Ket) Store(updates Memory) *Ket {
	return &Ket{qubits: k.qubits, amps: k.amps, mem: k.mem.With(updates)}
}

// WithAmplitudes returns a new ket over the same qubits and memory with
// replaced amplitudes.
func (k *Ket) WithAmplitudes(amps []complex128) *Ket {
	return &Ket{qubits: k.qubits, amps: amps, mem: k.mem}
}

// Norm returns the Euclidean norm squared of the amplitude vector. For a
// normalized state this is 1; after a projection it is the probability of
// the projected branch.
func (k *Ket) Norm() float64 {
	return tensor.Norm2(k.amps)
}

// Normalize returns a new ket scaled to unit norm.
func (k *Ket) Normalize() *Ket {
	norm := math.Sqrt(k.Norm())
	amps := make([]complex128, len(k.amps))
	for i, a := range k.amps {
		amps[i] = a / complex(norm, 0)
	}
	return k.WithAmplitudes(amps)
}

// Probabilities returns |amplitude|^2 per basis state.
func (k *Ket) Probabilities() []float64 {
	probs := make([]float64, len(k.amps))
	for i, a := range k.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Permute returns a new ket with its qubits reordered to newOrder, which
// must be a permutation of the current qubit list.
func (k *Ket) Permute(newOrder []Qubit) (*Ket, error) {
	perm, err := permutation(k.qubits, newOrder)
	if err != nil {
		return nil, err
	}
	return &Ket{
		qubits: slices.Clone(newOrder),
		amps:   tensor.PermuteVec(k.amps, perm),
		mem:    k.mem,
	}, nil
}

// AsDensity returns the density matrix |k⟩⟨k| over the same qubits and
// memory.
func (k *Ket) AsDensity() *Density {
	dim := len(k.amps)
	m := tensor.New(dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			m.Set(r, c, k.amps[r]*cmplx.Conj(k.amps[c]))
		}
	}
	return &Density{qubits: k.qubits, mat: m, mem: k.mem}
}

// permutation computes perm such that newOrder[k] == old[perm[k]].
func permutation(old, newOrder []Qubit) ([]int, error) {
	if len(old) != len(newOrder) {
		return nil, fmt.Errorf("state: permutation over %d qubits, have %d", len(newOrder), len(old))
	}
	perm := make([]int, len(newOrder))
	for i, q := range newOrder {
		idx := IndexQubit(old, q)
		if idx < 0 {
			return nil, fmt.Errorf("state: qubit %q not in state", q)
		}
		perm[i] = idx
	}
	return perm, nil
}
