package ops

import (
	"fmt"
	"slices"

	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/state"
)

// NewCtrlGateType synthesizes the descriptor of a controlled gate family
// from its target family. The symbolic operator is the block-diagonal of
// an identity block and the target's template; structure and hermiticity
// derive from the target. The declared parameter list must equal the
// target's exactly; any disagreement is a configuration error and panics
// at type-definition time.
func NewCtrlGateType(name string, qubitCount int, params []string, target *GateType) *GateType {
	if qubitCount <= target.qubitCount {
		panic(fmt.Sprintf("ops: controlled gate %s: %d qubits cannot control a %d-qubit target",
			name, qubitCount, target.qubitCount))
	}
	if !slices.Equal(params, target.params) {
		panic(fmt.Errorf("%w: %s declares %v, target %s has %v",
			ErrControlParamMismatch, name, params, target.name, target.params))
	}

	ctrlBlock := expr.Eye(1<<qubitCount - 1<<target.qubitCount)
	return &GateType{
		name:        name,
		qubitCount:  qubitCount,
		params:      slices.Clone(target.params),
		symOperator: expr.BlockDiag(ctrlBlock, target.symOperator),
		structure:   controlStructure[target.structure],
		hermitian:   target.hermitian,
		target:      target,
	}
}

// ControlQubitCount returns how many leading qubits of this family are
// controls. Zero for non-controlled families.
func (gt *GateType) ControlQubitCount() int {
	if gt.target == nil {
		return 0
	}
	return gt.qubitCount - gt.target.qubitCount
}

// ControlQubits returns the leading control qubits of a controlled gate
// instance.
func (g *StdGate) ControlQubits() []state.Qubit {
	return g.qubits[:g.gt.ControlQubitCount()]
}

// TargetGate reconstructs an instance of the target family bound to the
// trailing qubits, with identical arguments. Fails for instances of
// non-controlled families.
func (g *StdGate) TargetGate() (*StdGate, error) {
	if g.gt.target == nil {
		return nil, fmt.Errorf("ops: %s is not a controlled gate", g.gt.name)
	}
	return g.gt.target.New(g.args, g.qubits[g.gt.ControlQubitCount():]...)
}
