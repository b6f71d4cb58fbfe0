package ops

import (
	"fmt"

	"github.com/qopher/qopher/state"
)

// Store writes a value to classical memory. It touches no qubits and
// leaves the quantum part of the state unchanged.
type Store struct {
	addr  state.Addr
	value any
}

// NewStore builds a store of value at addr.
func NewStore(addr state.Addr, value any) *Store {
	return &Store{addr: addr, value: value}
}

func (s *Store) Qubits() []state.Qubit { return nil }
func (s *Store) Addrs() []state.Addr   { return []state.Addr{s.addr} }

// Value returns the value written by this store.
func (s *Store) Value() any { return s.value }

func (s *Store) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: Store", ErrNotRepresentable)
}

func (s *Store) H() (Operation, error) {
	return nil, fmt.Errorf("%w: Store has no adjoint", ErrNotSupported)
}

func (s *Store) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	addrs, err := mapAddrs([]state.Addr{s.addr}, amap)
	if err != nil {
		return nil, err
	}
	return &Store{addr: addrs[0], value: s.value}, nil
}

func (s *Store) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(s, qubits)
}

func (s *Store) Run(k *state.Ket) (*state.Ket, error) {
	return k.Store(state.Memory{s.addr: s.value}), nil
}

func (s *Store) Evolve(d *state.Density) (*state.Density, error) {
	return d.Store(state.Memory{s.addr: s.value}), nil
}

func (s *Store) String() string {
	return fmt.Sprintf("Store %s <- %v", s.addr, s.value)
}

// If applies a wrapped operation only when the value stored at a
// classical address equals an expected value. A missing key is an
// error, not a vacuously false condition.
type If struct {
	op       Operation
	addr     state.Addr
	expected any
}

// IfOption configures a conditional.
type IfOption func(*If)

// IfExpecting replaces the expected value (default true).
func IfExpecting(v any) IfOption {
	return func(c *If) { c.expected = v }
}

// NewIf builds a conditional application of op keyed on addr.
func NewIf(op Operation, addr state.Addr, opts ...IfOption) *If {
	c := &If{op: op, addr: addr, expected: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *If) Qubits() []state.Qubit { return c.op.Qubits() }

func (c *If) Addrs() []state.Addr {
	addrs := []state.Addr{c.addr}
	for _, a := range c.op.Addrs() {
		if a != c.addr {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// Inner returns the conditioned operation.
func (c *If) Inner() Operation { return c.op }

// Key returns the classical address the condition reads.
func (c *If) Key() state.Addr { return c.addr }

// Expected returns the value the condition compares against.
func (c *If) Expected() any { return c.expected }

func (c *If) AsGate() (Gate, error) {
	return nil, fmt.Errorf("%w: If", ErrNotRepresentable)
}

func (c *If) H() (Operation, error) {
	inv, err := c.op.H()
	if err != nil {
		return nil, err
	}
	return &If{op: inv, addr: c.addr, expected: c.expected}, nil
}

func (c *If) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	op, err := c.op.Relabel(qmap, amap)
	if err != nil {
		return nil, err
	}
	addrs, err := mapAddrs([]state.Addr{c.addr}, amap)
	if err != nil {
		return nil, err
	}
	return &If{op: op, addr: addrs[0], expected: c.expected}, nil
}

func (c *If) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(c, qubits)
}

func (c *If) Run(k *state.Ket) (*state.Ket, error) {
	v, ok := k.Memory().Value(c.addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingMemoryKey, c.addr)
	}
	if !valuesEqual(v, c.expected) {
		return k, nil
	}
	return c.op.Run(k)
}

func (c *If) Evolve(d *state.Density) (*state.Density, error) {
	v, ok := d.Memory().Value(c.addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingMemoryKey, c.addr)
	}
	if !valuesEqual(v, c.expected) {
		return d, nil
	}
	return c.op.Evolve(d)
}

func (c *If) String() string {
	return fmt.Sprintf("If %s == %v: %s", c.addr, c.expected, c.op)
}

// valuesEqual compares a stored memory value against an expected value.
// Measurement outcomes are stored as ints, while conditions are often
// written as booleans, so 0/1 and false/true are treated as equal.
func valuesEqual(stored, expected any) bool {
	if stored == expected {
		return true
	}
	sb, sok := asBool(stored)
	eb, eok := asBool(expected)
	return sok && eok && sb == eb
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int:
		if x == 0 || x == 1 {
			return x == 1, true
		}
	}
	return false, false
}

// Barrier is a scheduling hint that orders the operations on either side
// of it. It acts as the identity on state.
type Barrier struct {
	qubits []state.Qubit
}

// NewBarrier builds a barrier across the given qubits.
func NewBarrier(qubits ...state.Qubit) (*Barrier, error) {
	if err := checkUniqueQubits(qubits); err != nil {
		return nil, err
	}
	return &Barrier{qubits: qubits}, nil
}

func (b *Barrier) Qubits() []state.Qubit { return b.qubits }
func (b *Barrier) Addrs() []state.Addr   { return nil }

func (b *Barrier) AsGate() (Gate, error) {
	return IdentityGate(b.qubits...), nil
}

func (b *Barrier) H() (Operation, error) { return b, nil }

func (b *Barrier) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	qubits, err := mapQubits(b.qubits, qmap)
	if err != nil {
		return nil, err
	}
	return &Barrier{qubits: qubits}, nil
}

func (b *Barrier) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(b, qubits)
}

func (b *Barrier) Run(k *state.Ket) (*state.Ket, error) { return k, nil }

func (b *Barrier) Evolve(d *state.Density) (*state.Density, error) { return d, nil }

func (b *Barrier) String() string {
	return "Barrier " + joinQubits(b.qubits)
}
