// Package ops implements the quantum operation algebra: the capability
// contract every executable action satisfies, dense gates and their
// tensor-contraction composition, parameterized standard gate families
// with symbolic operator templates, automatic controlled-gate synthesis,
// ordered composites and moments, the classical-control operations that
// couple quantum state to classical memory, and the simulator wrappers
// that execute composed structures.
//
// ARCHITECTURE:
//
// Type descriptors over reflection:
// Every standard gate family is described by an explicit GateType record
// (name, qubit count, parameter names, symbolic operator template,
// structure, hermiticity) built once at registration time. Instances are
// immutable; relabeling or conjugation produces new instances.
//
// Registries:
// Gate families and simulator backends are registered explicitly into a
// Registry, which is sealed before use. After sealing all lookups are
// read-only and need no synchronization.
//
// Execution:
// Run executes against pure states (Ket), Evolve against mixed states
// (Density). Everything is deterministic except the single pseudorandom
// draw inside Measure.
package ops
