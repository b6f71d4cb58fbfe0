package state

import (
	"slices"
	"strconv"
	"strings"
)

// Qubit is an opaque label identifying one two-level quantum subsystem.
// Qubits are hashable (usable as map keys) and totally ordered by Compare.
type Qubit string

// Q returns the qubit label for an integer index.
func Q(i int) Qubit {
	return Qubit(strconv.Itoa(i))
}

// Compare orders qubit labels. Labels that both parse as integers compare
// numerically, so Q(2) sorts before Q(10); otherwise the order is
// lexicographic with numeric labels first.
func (q Qubit) Compare(other Qubit) int {
	qi, qerr := strconv.Atoi(string(q))
	oi, oerr := strconv.Atoi(string(other))
	switch {
	case qerr == nil && oerr == nil:
		switch {
		case qi < oi:
			return -1
		case qi > oi:
			return 1
		}
		return 0
	case qerr == nil:
		return -1
	case oerr == nil:
		return 1
	}
	return strings.Compare(string(q), string(other))
}

// SortQubits sorts a qubit slice in place by Compare.
func SortQubits(qs []Qubit) {
	slices.SortFunc(qs, func(a, b Qubit) int { return a.Compare(b) })
}

// SortedQubits returns a sorted copy of qs with duplicates removed.
func SortedQubits(qs []Qubit) []Qubit {
	out := slices.Clone(qs)
	SortQubits(out)
	return slices.Compact(out)
}

// IndexQubit returns the position of q within qs, or -1.
func IndexQubit(qs []Qubit, q Qubit) int {
	return slices.Index(qs, q)
}

// Addr is an opaque key into classical memory.
type Addr string

// AddrOf converts a qubit label to the classical address with the same
// name. Measure uses this as its default target.
func AddrOf(q Qubit) Addr {
	return Addr(q)
}

// SortAddrs sorts an addr slice in place.
func SortAddrs(as []Addr) {
	slices.Sort(as)
}

// SortedAddrs returns a sorted copy of as with duplicates removed.
func SortedAddrs(as []Addr) []Addr {
	out := slices.Clone(as)
	slices.Sort(out)
	return slices.Compact(out)
}
