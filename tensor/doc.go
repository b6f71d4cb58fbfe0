// Package tensor provides dense complex matrix and tensor primitives for
// quantum operators and state vectors.
//
// Matrices are square, row-major, with dimension 2^n for an n-qubit
// operator. Basis indexing follows the most-significant-bit-first
// convention: qubit position 0 in an operator's qubit list corresponds to
// the highest bit of a basis index. All functions treat their inputs as
// immutable and return fresh buffers.
package tensor
