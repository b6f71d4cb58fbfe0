package gates

import (
	"fmt"
	"sync"

	"github.com/qopher/qopher/ops"
)

// CircuitSimulatorName is the registry key of the reference backend.
const CircuitSimulatorName = "circuit"

// all lists the catalog families in registration order.
func all() []*ops.GateType {
	return []*ops.GateType{
		IType, XType, YType, ZType, HType, SType, TType,
		RxType, RyType, RzType, PhaseShiftType,
		SwapType,
		CNotType, CZType, CCNotType, CSwapType, CRzType,
	}
}

// RegisterInto registers the full catalog and the reference simulator
// backend into r. It fails if r is sealed or already holds one of the
// catalog names.
func RegisterInto(r *ops.Registry) error {
	for _, gt := range all() {
		if err := r.RegisterGateType(gt); err != nil {
			return fmt.Errorf("gates: %w", err)
		}
	}
	if err := r.RegisterSimulator(CircuitSimulatorName, ops.NewCircuitSimulator); err != nil {
		return fmt.Errorf("gates: %w", err)
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *ops.Registry
)

// Default returns the shared sealed registry holding the standard
// catalog. The catalog names are fixed, so registration cannot fail.
func Default() *ops.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = ops.NewRegistry()
		if err := RegisterInto(defaultRegistry); err != nil {
			panic(err)
		}
		defaultRegistry.Seal()
	})
	return defaultRegistry
}
