// Package trace records circuit executions to a SQLite run log.
//
// A Recorder wraps any circuit as a Simulator backend that writes one
// run row per execution and one step row per operation, stamped with a
// monotonic step sequence and a run token. UUIDv7 tokens sort by
// creation time; fixed-token generators exist for deterministic tests.
//
// The run log is append-only. Nothing in this package mutates or
// deletes recorded runs; inspection goes through the read methods.
package trace
