package ops

import "github.com/qopher/qopher/state"

// Simulator executes one wrapped circuit under a named execution
// strategy. The reference backend delegates straight to the circuit;
// alternate backends (tracing, noisy, remote) keep the same contract.
type Simulator interface {
	// Qubits returns the wrapped circuit's qubit closure.
	Qubits() []state.Qubit

	// Run executes the circuit against a pure state.
	Run(k *state.Ket) (*state.Ket, error)

	// Evolve executes the circuit against a mixed state.
	Evolve(d *state.Density) (*state.Density, error)
}

// SimulatorFactory builds a backend around a circuit. Factories are
// registered by name in a Registry so execution strategies can be
// selected at runtime.
type SimulatorFactory func(c *Circuit) Simulator

// CircuitSimulator is the reference backend: direct delegation, no
// instrumentation.
type CircuitSimulator struct {
	circ *Circuit
}

// NewCircuitSimulator wraps a circuit in the reference backend.
func NewCircuitSimulator(c *Circuit) Simulator {
	return &CircuitSimulator{circ: c}
}

// Circuit returns the wrapped circuit.
func (s *CircuitSimulator) Circuit() *Circuit { return s.circ }

func (s *CircuitSimulator) Qubits() []state.Qubit { return s.circ.Qubits() }

func (s *CircuitSimulator) Run(k *state.Ket) (*state.Ket, error) {
	return s.circ.Run(k)
}

func (s *CircuitSimulator) Evolve(d *state.Density) (*state.Density, error) {
	return s.circ.Evolve(d)
}
