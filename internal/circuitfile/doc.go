// Package circuitfile loads circuit definitions from CUE files.
//
// A circuit file declares circuits as CUE structs:
//
//	circuit: bell: {
//		qubits: ["q0", "q1"]
//		ops: [
//			{gate: "H", on: ["q0"]},
//			{gate: "CNot", on: ["q0", "q1"]},
//			{measure: "q0", to: "m0"},
//		]
//	}
//
// Gate names resolve against a Registry; the file format itself knows
// nothing about the catalog. Parameter values may be numbers, short
// pi expressions ("pi/2", "-3*pi/4"), or bare identifiers, which
// compile to free symbolic parameters.
//
// Compilation uses the CUE SDK's Go API directly, not a CLI
// subprocess, so errors carry source positions.
package circuitfile
