// Package harness provides a conformance testing framework for
// circuits: YAML scenarios that load a circuit from CUE, execute it
// (one scripted run or many sampled trials), and assert on the outcome
// distribution, final memory, and state norm.
//
// Determinism comes from two sources. Scripted scenarios list the exact
// uniform draws their measurements consume, so a single run has one
// possible outcome and can be golden-file compared. Sampled scenarios
// use a fixed-seed PCG source and assert on frequencies within a
// declared tolerance; the tolerance, not the seed, is the contract.
package harness
