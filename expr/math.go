package expr

import (
	"fmt"
	"math/cmplx"
)

// The functions below act on Values and return a numeric result when every
// operand is numeric, or a symbolic expression otherwise. Each function
// branches explicitly per variant.

func binary(kind nodeKind, a, b Value) Value {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	if aok && bok {
		return Num(applyNumeric(kind, []complex128{complex128(an), complex128(bn)}))
	}
	return Symbolic{n: &node{kind: kind, args: []*node{toNode(a), toNode(b)}}}
}

func unary(kind nodeKind, a Value) Value {
	if an, ok := a.(Num); ok {
		return Num(applyNumeric(kind, []complex128{complex128(an)}))
	}
	return Symbolic{n: &node{kind: kind, args: []*node{toNode(a)}}}
}

// Add returns a + b.
func Add(a, b Value) Value { return binary(kindAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Value) Value { return binary(kindSub, a, b) }

// Mul returns a * b.
func Mul(a, b Value) Value { return binary(kindMul, a, b) }

// Div returns a / b.
func Div(a, b Value) Value { return binary(kindDiv, a, b) }

// Pow returns a raised to b, using the principal branch for numeric
// operands.
func Pow(a, b Value) Value { return binary(kindPow, a, b) }

// Neg returns -a.
func Neg(a Value) Value { return unary(kindNeg, a) }

// Sin returns sin(a).
func Sin(a Value) Value { return unary(kindSin, a) }

// Cos returns cos(a).
func Cos(a Value) Value { return unary(kindCos, a) }

// Tan returns tan(a).
func Tan(a Value) Value { return unary(kindTan, a) }

// Exp returns e^a.
func Exp(a Value) Value { return unary(kindExp, a) }

// Sqrt returns the principal square root of a.
func Sqrt(a Value) Value { return unary(kindSqrt, a) }

func applyNumeric(kind nodeKind, args []complex128) complex128 {
	switch kind {
	case kindAdd:
		return args[0] + args[1]
	case kindSub:
		return args[0] - args[1]
	case kindMul:
		return args[0] * args[1]
	case kindDiv:
		return args[0] / args[1]
	case kindPow:
		return cmplx.Pow(args[0], args[1])
	case kindNeg:
		return -args[0]
	case kindSin:
		return cmplx.Sin(args[0])
	case kindCos:
		return cmplx.Cos(args[0])
	case kindTan:
		return cmplx.Tan(args[0])
	case kindExp:
		return cmplx.Exp(args[0])
	case kindSqrt:
		return cmplx.Sqrt(args[0])
	default:
		panic(fmt.Sprintf("expr: non-numeric node kind %d", kind))
	}
}
