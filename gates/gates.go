package gates

import (
	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

// theta is the single rotation parameter shared by the parameterized
// families.
const theta = "theta"

func halfTheta() expr.Value {
	return expr.Div(expr.Symbol(theta), expr.N(2))
}

// Single-qubit fixed gates.
var (
	IType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "I",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.One},
		}),
		Structure: ops.Identity,
		Hermitian: true,
	})

	XType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "X",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Zero, expr.One},
			{expr.One, expr.Zero},
		}),
		Structure: ops.Permutation,
		Hermitian: true,
	})

	YType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "Y",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Zero, expr.Neg(expr.I)},
			{expr.I, expr.Zero},
		}),
		Structure: ops.Monomial,
		Hermitian: true,
	})

	ZType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "Z",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.N(-1)},
		}),
		Structure: ops.Diagonal,
		Hermitian: true,
	})

	HType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "H",
		QubitCount: 1,
		SymOperator: scale(expr.Div(expr.One, expr.Sqrt(expr.N(2))), [][]expr.Value{
			{expr.One, expr.One},
			{expr.One, expr.N(-1)},
		}),
		Structure: ops.Unstructured,
		Hermitian: true,
	})

	SType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "S",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.I},
		}),
		Structure: ops.Diagonal,
	})

	TType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "T",
		QubitCount: 1,
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.Exp(expr.Mul(expr.I, expr.Div(expr.Pi, expr.N(4))))},
		}),
		Structure: ops.Diagonal,
	})
)

// Single-qubit rotation families.
var (
	RxType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "Rx",
		QubitCount: 1,
		Params:     []string{theta},
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Cos(halfTheta()), expr.Mul(expr.Neg(expr.I), expr.Sin(halfTheta()))},
			{expr.Mul(expr.Neg(expr.I), expr.Sin(halfTheta())), expr.Cos(halfTheta())},
		}),
		Structure: ops.Unstructured,
	})

	RyType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "Ry",
		QubitCount: 1,
		Params:     []string{theta},
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Cos(halfTheta()), expr.Neg(expr.Sin(halfTheta()))},
			{expr.Sin(halfTheta()), expr.Cos(halfTheta())},
		}),
		Structure: ops.Unstructured,
	})

	RzType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "Rz",
		QubitCount: 1,
		Params:     []string{theta},
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.Exp(expr.Mul(expr.Neg(expr.I), halfTheta())), expr.Zero},
			{expr.Zero, expr.Exp(expr.Mul(expr.I, halfTheta()))},
		}),
		Structure: ops.Diagonal,
	})

	PhaseShiftType = ops.NewGateType(ops.GateTypeSpec{
		Name:       "PhaseShift",
		QubitCount: 1,
		Params:     []string{theta},
		SymOperator: expr.MatrixFromRows([][]expr.Value{
			{expr.One, expr.Zero},
			{expr.Zero, expr.Exp(expr.Mul(expr.I, expr.Symbol(theta)))},
		}),
		Structure: ops.Diagonal,
	})
)

// SwapType exchanges two qubits.
var SwapType = ops.NewGateType(ops.GateTypeSpec{
	Name:       "Swap",
	QubitCount: 2,
	SymOperator: expr.MatrixFromRows([][]expr.Value{
		{expr.One, expr.Zero, expr.Zero, expr.Zero},
		{expr.Zero, expr.Zero, expr.One, expr.Zero},
		{expr.Zero, expr.One, expr.Zero, expr.Zero},
		{expr.Zero, expr.Zero, expr.Zero, expr.One},
	}),
	Structure: ops.Swap,
	Hermitian: true,
})

// Controlled families, each synthesized from its target.
var (
	CNotType  = ops.NewCtrlGateType("CNot", 2, nil, XType)
	CZType    = ops.NewCtrlGateType("CZ", 2, nil, ZType)
	CCNotType = ops.NewCtrlGateType("CCNot", 3, nil, CNotType)
	CSwapType = ops.NewCtrlGateType("CSwap", 3, nil, SwapType)
	CRzType   = ops.NewCtrlGateType("CRz", 2, []string{theta}, RzType)
)

// Fixed-arity constructors. These panic on duplicate qubits, matching
// the construct-or-die style used in circuit builders; use the family's
// New method when errors must be handled.

func I(q state.Qubit) *ops.StdGate { return IType.MustNew(nil, q) }
func X(q state.Qubit) *ops.StdGate { return XType.MustNew(nil, q) }
func Y(q state.Qubit) *ops.StdGate { return YType.MustNew(nil, q) }
func Z(q state.Qubit) *ops.StdGate { return ZType.MustNew(nil, q) }
func H(q state.Qubit) *ops.StdGate { return HType.MustNew(nil, q) }
func S(q state.Qubit) *ops.StdGate { return SType.MustNew(nil, q) }
func T(q state.Qubit) *ops.StdGate { return TType.MustNew(nil, q) }

func Rx(angle expr.Value, q state.Qubit) *ops.StdGate {
	return RxType.MustNew([]expr.Value{angle}, q)
}

func Ry(angle expr.Value, q state.Qubit) *ops.StdGate {
	return RyType.MustNew([]expr.Value{angle}, q)
}

func Rz(angle expr.Value, q state.Qubit) *ops.StdGate {
	return RzType.MustNew([]expr.Value{angle}, q)
}

func PhaseShift(angle expr.Value, q state.Qubit) *ops.StdGate {
	return PhaseShiftType.MustNew([]expr.Value{angle}, q)
}

func Swap(q0, q1 state.Qubit) *ops.StdGate {
	return SwapType.MustNew(nil, q0, q1)
}

func CNot(control, target state.Qubit) *ops.StdGate {
	return CNotType.MustNew(nil, control, target)
}

func CZ(control, target state.Qubit) *ops.StdGate {
	return CZType.MustNew(nil, control, target)
}

func CCNot(c0, c1, target state.Qubit) *ops.StdGate {
	return CCNotType.MustNew(nil, c0, c1, target)
}

func CSwap(control, q0, q1 state.Qubit) *ops.StdGate {
	return CSwapType.MustNew(nil, control, q0, q1)
}

func CRz(angle expr.Value, control, target state.Qubit) *ops.StdGate {
	return CRzType.MustNew([]expr.Value{angle}, control, target)
}

// scale multiplies every entry of a row template by factor.
func scale(factor expr.Value, rows [][]expr.Value) expr.Matrix {
	out := make([][]expr.Value, len(rows))
	for i, row := range rows {
		out[i] = make([]expr.Value, len(row))
		for j, v := range row {
			out[i][j] = expr.Mul(factor, v)
		}
	}
	return expr.MatrixFromRows(out)
}
