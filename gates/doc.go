// Package gates defines the standard gate catalog: the named
// single-qubit and multi-qubit families with their symbolic operator
// templates, fixed-arity constructors for each, and a sealed default
// registry.
//
// Family descriptors (XType, RzType, CNotType, ...) are package
// variables built once at startup. Nothing here registers itself into
// a shared registry as a side effect; callers either use Default() or
// populate their own registry with RegisterInto.
package gates
