package ops

import (
	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/state"
)

// Local gate families for tests. The full standard catalog lives in the
// gates package, which imports ops; tests here declare the handful of
// families they need directly.
var (
	xType = NewGateType(GateTypeSpec{
		Name:       "X",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Zero, expr.One},
			{expr.One, expr.Zero},
		}),
		Structure: Permutation,
		Hermitian: true,
	})

	zType = NewGateType(GateTypeSpec{
		Name:       "Z",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.N(-1)},
		}),
		Structure: Diagonal,
		Hermitian: true,
	})

	sType = NewGateType(GateTypeSpec{
		Name:       "S",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.I},
		}),
		Structure: Diagonal,
	})

	hType = NewGateType(GateTypeSpec{
		Name:       "H",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Div(expr.One, expr.Sqrt(expr.N(2))), expr.Div(expr.One, expr.Sqrt(expr.N(2)))},
			{expr.Div(expr.One, expr.Sqrt(expr.N(2))), expr.Neg(expr.Div(expr.One, expr.Sqrt(expr.N(2))))},
		}),
		Structure: Unstructured,
		Hermitian: true,
	})

	rzType = NewGateType(GateTypeSpec{
		Name:       "Rz",
		QubitCount: 1,
		Params:     []string{"theta"},
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Exp(expr.Mul(expr.Neg(expr.I), expr.Div(expr.Symbol("theta"), expr.N(2)))), expr.Zero},
			{expr.Zero, expr.Exp(expr.Mul(expr.I, expr.Div(expr.Symbol("theta"), expr.N(2))))},
		}),
		Structure: Diagonal,
	})

	swapType = NewGateType(GateTypeSpec{
		Name:       "Swap",
		QubitCount: 2,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero, expr.Zero, expr.Zero},
			{expr.Zero, expr.Zero, expr.One, expr.Zero},
			{expr.Zero, expr.One, expr.Zero, expr.Zero},
			{expr.Zero, expr.Zero, expr.Zero, expr.One},
		}),
		Structure: Swap,
		Hermitian: true,
	})

	cnotType = NewCtrlGateType("CNot", 2, nil, xType)
)

func xGate(q state.Qubit) *StdGate { return xType.MustNew(nil, q) }
func zGate(q state.Qubit) *StdGate { return zType.MustNew(nil, q) }
func hGate(q state.Qubit) *StdGate { return hType.MustNew(nil, q) }

func rzGate(angle expr.Value, q state.Qubit) *StdGate {
	return rzType.MustNew([]expr.Value{angle}, q)
}

func cnotGate(control, target state.Qubit) *StdGate {
	return cnotType.MustNew(nil, control, target)
}

// bellCircuit prepares (|00>+|11>)/sqrt(2) and measures both qubits.
func bellCircuit() *Circuit {
	return MustCircuit(
		hGate(state.Q(0)),
		cnotGate(state.Q(0), state.Q(1)),
		NewMeasure(state.Q(0), MeasureTo("m0")),
		NewMeasure(state.Q(1), MeasureTo("m1")),
	)
}
