package ops

import (
	"fmt"
	"slices"
	"strings"

	"github.com/qopher/qopher/state"
)

// Circuit is an immutable ordered sequence of operations treated as one
// operation. Its closure (declared qubits and addrs) defaults to the
// sorted union over children and may be explicitly widened, never
// narrowed.
type Circuit struct {
	elems  []Operation
	qubits []state.Qubit
	addrs  []state.Addr
}

// CircuitOption configures circuit construction.
type CircuitOption func(*circuitConfig)

type circuitConfig struct {
	qubits []state.Qubit
	addrs  []state.Addr
}

// WithQubits widens the circuit's declared qubit closure. The set must be
// a superset of the union over children.
func WithQubits(qubits ...state.Qubit) CircuitOption {
	return func(c *circuitConfig) { c.qubits = qubits }
}

// WithAddrs widens the circuit's declared address closure.
func WithAddrs(addrs ...state.Addr) CircuitOption {
	return func(c *circuitConfig) { c.addrs = addrs }
}

// NewCircuit builds a circuit from child operations in program order.
func NewCircuit(elems []Operation, opts ...CircuitOption) (*Circuit, error) {
	var cfg circuitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var childQubits []state.Qubit
	var childAddrs []state.Addr
	for _, elem := range elems {
		childQubits = append(childQubits, elem.Qubits()...)
		childAddrs = append(childAddrs, elem.Addrs()...)
	}
	elemQubits := state.SortedQubits(childQubits)
	elemAddrs := state.SortedAddrs(childAddrs)

	qubits := elemQubits
	if cfg.qubits != nil {
		for _, q := range elemQubits {
			if state.IndexQubit(cfg.qubits, q) < 0 {
				return nil, fmt.Errorf("%w: qubit %q used but not declared", ErrIncommensurateClosure, q)
			}
		}
		if err := checkUniqueQubits(cfg.qubits); err != nil {
			return nil, err
		}
		qubits = slices.Clone(cfg.qubits)
	}

	addrs := elemAddrs
	if cfg.addrs != nil {
		for _, a := range elemAddrs {
			if !slices.Contains(cfg.addrs, a) {
				return nil, fmt.Errorf("%w: addr %q used but not declared", ErrIncommensurateClosure, a)
			}
		}
		addrs = slices.Clone(cfg.addrs)
	}

	return &Circuit{elems: slices.Clone(elems), qubits: qubits, addrs: addrs}, nil
}

// MustCircuit is NewCircuit panicking on error; for literal circuits in
// tests and examples.
func MustCircuit(elems ...Operation) *Circuit {
	c, err := NewCircuit(elems)
	if err != nil {
		panic(err)
	}
	return c
}

// Elements returns the child operations in program order. Callers must
// not modify the returned slice.
func (c *Circuit) Elements() []Operation { return c.elems }

// Size returns the number of child operations.
func (c *Circuit) Size() int { return len(c.elems) }

func (c *Circuit) Qubits() []state.Qubit { return c.qubits }
func (c *Circuit) Addrs() []state.Addr   { return c.addrs }

// AsGate folds the circuit into a single dense gate. Starting from the
// identity over the closure qubits, each child applies after the
// accumulator in program order. Fails with ErrNotRepresentable if any
// child has no gate form.
func (c *Circuit) AsGate() (Gate, error) {
	var acc Gate = IdentityGate(c.qubits...)
	for _, elem := range c.elems {
		g, err := elem.AsGate()
		if err != nil {
			return nil, err
		}
		acc, err = Compose(g, acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// H reverses the child order and conjugates each child, preserving the
// declared closure.
func (c *Circuit) H() (Operation, error) {
	elems := make([]Operation, len(c.elems))
	for i, elem := range c.elems {
		h, err := elem.H()
		if err != nil {
			return nil, err
		}
		elems[len(c.elems)-1-i] = h
	}
	return &Circuit{elems: elems, qubits: c.qubits, addrs: c.addrs}, nil
}

func (c *Circuit) Relabel(qmap map[state.Qubit]state.Qubit, amap map[state.Addr]state.Addr) (Operation, error) {
	elems := make([]Operation, len(c.elems))
	for i, elem := range c.elems {
		r, err := elem.Relabel(qmap, amap)
		if err != nil {
			return nil, err
		}
		elems[i] = r
	}
	qubits, err := mapQubits(c.qubits, qmap)
	if err != nil {
		return nil, err
	}
	addrs, err := mapAddrs(c.addrs, amap)
	if err != nil {
		return nil, err
	}
	return &Circuit{elems: elems, qubits: qubits, addrs: addrs}, nil
}

func (c *Circuit) On(qubits ...state.Qubit) (Operation, error) {
	return onQubits(c, qubits)
}

func (c *Circuit) Run(k *state.Ket) (*state.Ket, error) {
	var err error
	for _, elem := range c.elems {
		k, err = elem.Run(k)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", elem, err)
		}
	}
	return k, nil
}

func (c *Circuit) Evolve(d *state.Density) (*state.Density, error) {
	var err error
	for _, elem := range c.elems {
		d, err = elem.Evolve(d)
		if err != nil {
			return nil, fmt.Errorf("evolve %s: %w", elem, err)
		}
	}
	return d, nil
}

// equal implements sequence equality: same declared closure and
// pairwise-equal children in order.
func (c *Circuit) equal(other *Circuit) bool {
	if len(c.elems) != len(other.elems) || !sameQubits(c.qubits, other.qubits) {
		return false
	}
	if !slices.Equal(c.addrs, other.addrs) {
		return false
	}
	for i := range c.elems {
		if !Equal(c.elems[i], other.elems[i]) {
			return false
		}
	}
	return true
}

func (c *Circuit) String() string {
	return renderComposite("Circuit", c.elems)
}

const circuitIndent = 4

func renderComposite(name string, elems []Operation) string {
	var b strings.Builder
	b.WriteString(name)
	for _, elem := range elems {
		for _, line := range strings.Split(elem.String(), "\n") {
			b.WriteString("\n" + strings.Repeat(" ", circuitIndent) + line)
		}
	}
	return b.String()
}
