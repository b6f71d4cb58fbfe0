package ops

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps names to gate families and simulator backends. All
// registration is explicit: nothing registers itself at init time, so a
// program sees exactly the names it put in.
//
// A registry may be sealed once populated; further registration fails.
// Lookups are safe for concurrent use at any point.
type Registry struct {
	mu         sync.RWMutex
	gateTypes  map[string]*GateType
	simulators map[string]SimulatorFactory
	sealed     bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		gateTypes:  make(map[string]*GateType),
		simulators: make(map[string]SimulatorFactory),
	}
}

// RegisterGateType adds a gate family under its declared name.
// Duplicate names and registration after Seal are errors.
func (r *Registry) RegisterGateType(gt *GateType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("ops: registry sealed, cannot register gate type %q", gt.Name())
	}
	if _, dup := r.gateTypes[gt.Name()]; dup {
		return fmt.Errorf("ops: duplicate gate type %q", gt.Name())
	}
	r.gateTypes[gt.Name()] = gt
	return nil
}

// RegisterSimulator adds a backend factory under name.
func (r *Registry) RegisterSimulator(name string, factory SimulatorFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("ops: registry sealed, cannot register simulator %q", name)
	}
	if _, dup := r.simulators[name]; dup {
		return fmt.Errorf("ops: duplicate simulator %q", name)
	}
	if factory == nil {
		return fmt.Errorf("ops: nil factory for simulator %q", name)
	}
	r.simulators[name] = factory
	return nil
}

// Seal freezes the registry. Sealing twice is harmless.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// GateType looks up a gate family by name.
func (r *Registry) GateType(name string) (*GateType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gt, ok := r.gateTypes[name]
	return gt, ok
}

// Simulator looks up a backend factory by name.
func (r *Registry) Simulator(name string) (SimulatorFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.simulators[name]
	return f, ok
}

// GateTypeNames returns all registered family names, sorted.
func (r *Registry) GateTypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateTypes))
	for name := range r.gateTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StdGateTypeNames returns the names of uncontrolled families, sorted.
func (r *Registry) StdGateTypeNames() []string {
	return r.filterNames(func(gt *GateType) bool { return gt.ControlQubitCount() == 0 })
}

// CtrlGateTypeNames returns the names of controlled families, sorted.
func (r *Registry) CtrlGateTypeNames() []string {
	return r.filterNames(func(gt *GateType) bool { return gt.ControlQubitCount() > 0 })
}

func (r *Registry) filterNames(keep func(*GateType) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, gt := range r.gateTypes {
		if keep(gt) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SimulatorNames returns all registered backend names, sorted.
func (r *Registry) SimulatorNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.simulators))
	for name := range r.simulators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
