package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQubit_Compare_Numeric(t *testing.T) {
	assert.Equal(t, -1, Q(2).Compare(Q(10)), "numeric labels compare numerically")
	assert.Equal(t, 1, Q(10).Compare(Q(2)))
	assert.Equal(t, 0, Q(5).Compare(Q(5)))
}

func TestQubit_Compare_Mixed(t *testing.T) {
	assert.Equal(t, -1, Q(3).Compare(Qubit("ancilla")), "numeric labels sort first")
	assert.Equal(t, 1, Qubit("ancilla").Compare(Q(3)))
	assert.Equal(t, -1, Qubit("a").Compare(Qubit("b")))
}

func TestSortedQubits(t *testing.T) {
	got := SortedQubits([]Qubit{Q(10), Q(2), Qubit("x"), Q(2)})
	assert.Equal(t, []Qubit{Q(2), Q(10), Qubit("x")}, got)
}

func TestSortQubits_InPlace(t *testing.T) {
	qs := []Qubit{Q(1), Q(0)}
	SortQubits(qs)
	assert.Equal(t, []Qubit{Q(0), Q(1)}, qs)
}

func TestIndexQubit(t *testing.T) {
	qs := []Qubit{Q(0), Q(1), Q(2)}
	assert.Equal(t, 1, IndexQubit(qs, Q(1)))
	assert.Equal(t, -1, IndexQubit(qs, Q(7)))
}

func TestAddrOf(t *testing.T) {
	assert.Equal(t, Addr("3"), AddrOf(Q(3)))
}

func TestSortedAddrs(t *testing.T) {
	got := SortedAddrs([]Addr{"m1", "m0", "m1"})
	assert.Equal(t, []Addr{"m0", "m1"}, got)
}
