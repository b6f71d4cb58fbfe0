// Package state holds the quantum state representations and the labels
// they are indexed by.
//
// A Qubit is an opaque, totally ordered label for one two-level subsystem.
// An Addr is an opaque key into the classical memory carried alongside the
// quantum state. Ket is the pure-state vector representation; Density is
// the mixed-state matrix representation. Both carry an ordered qubit list
// and an immutable classical memory mapping: Store returns a new state
// rather than mutating in place.
package state
