package ops

// OperatorStructure classifies the sparsity of a gate's operator matrix in
// the computational basis. The classification is advisory: it enables
// structure-specific rules (power, future optimization passes) but is not
// enforced against the matrix at runtime.
type OperatorStructure uint8

const (
	// Unstructured means the matrix has no recognized structure.
	Unstructured OperatorStructure = iota

	// Identity is the identity matrix.
	Identity

	// Diagonal means all off-diagonal entries are zero.
	Diagonal

	// Permutation means a single 1 in each row and column: the operator
	// permutes basis states.
	Permutation

	// Swap is a permutation that permutes whole qubits.
	Swap

	// Monomial means exactly one non-zero entry in each row and column:
	// the product of a diagonal and a permutation matrix.
	Monomial
)

var structureNames = map[OperatorStructure]string{
	Unstructured: "unstructured",
	Identity:     "identity",
	Diagonal:     "diagonal",
	Permutation:  "permutation",
	Swap:         "swap",
	Monomial:     "monomial",
}

func (s OperatorStructure) String() string {
	if name, ok := structureNames[s]; ok {
		return name
	}
	return "unknown"
}

// controlStructure maps a target gate's structure to the structure of its
// controlled variant. A swap target degrades to plain permutation: the
// swap-specific symmetry does not survive the identity padding in front of
// the target block.
var controlStructure = map[OperatorStructure]OperatorStructure{
	Identity:     Identity,
	Diagonal:     Diagonal,
	Permutation:  Permutation,
	Swap:         Permutation,
	Monomial:     Monomial,
	Unstructured: Unstructured,
}
