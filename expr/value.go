package expr

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Value is a sealed sum type for gate parameters. Only Num (exact numeric)
// and Symbolic (expression handle) implement it.
type Value interface {
	value() // sealed
	String() string
}

// Num is the numeric variant: an exact complex number. Equality on Num is
// exact, with no tolerance.
type Num complex128

func (Num) value() {}

// Symbolic is the symbolic variant: a handle to an immutable expression
// tree. Expressions are built with Symbol and the package math functions.
type Symbolic struct {
	n *node
}

func (Symbolic) value() {}

type nodeKind uint8

const (
	kindSym nodeKind = iota
	kindConst
	kindPi
	kindAdd
	kindSub
	kindMul
	kindDiv
	kindNeg
	kindSin
	kindCos
	kindTan
	kindExp
	kindSqrt
	kindPow
)

type node struct {
	kind nodeKind
	name string     // kindSym
	val  complex128 // kindConst
	args []*node
}

// N returns the numeric Value for a real number.
func N(x float64) Value { return Num(complex(x, 0)) }

// C returns the numeric Value for a complex number.
func C(x complex128) Value { return Num(x) }

// Symbol returns a symbolic Value consisting of a single named free symbol.
func Symbol(name string) Value {
	return Symbolic{n: &node{kind: kindSym, name: name}}
}

// Pi is the symbolic constant π. It is closed (has no free symbols) and
// evaluates to math.Pi.
var Pi Value = Symbolic{n: &node{kind: kindPi}}

// I is the imaginary unit as a numeric Value.
var I Value = Num(complex(0, 1))

// Zero and One are numeric constants used heavily in operator templates.
var (
	Zero Value = Num(0)
	One  Value = Num(1)
)

// IsSymbolic reports whether v is the symbolic variant.
func IsSymbolic(v Value) bool {
	_, ok := v.(Symbolic)
	return ok
}

// Symbols returns the sorted free symbol names of v.
func Symbols(v Value) []string {
	s, ok := v.(Symbolic)
	if !ok {
		return nil
	}
	set := map[string]struct{}{}
	collectSymbols(s.n, set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(n *node, set map[string]struct{}) {
	if n.kind == kindSym {
		set[n.name] = struct{}{}
	}
	for _, a := range n.args {
		collectSymbols(a, set)
	}
}

// Eval lowers v to a complex number. It fails if v has free symbols.
func Eval(v Value) (complex128, error) {
	switch val := v.(type) {
	case Num:
		return complex128(val), nil
	case Symbolic:
		return evalNode(val.n)
	default:
		return 0, fmt.Errorf("expr: unknown value type %T", v)
	}
}

func evalNode(n *node) (complex128, error) {
	switch n.kind {
	case kindSym:
		return 0, fmt.Errorf("expr: free symbol %q in numeric evaluation", n.name)
	case kindConst:
		return n.val, nil
	case kindPi:
		return complex(math.Pi, 0), nil
	}
	args := make([]complex128, len(n.args))
	for i, a := range n.args {
		v, err := evalNode(a)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return applyNumeric(n.kind, args), nil
}

// Subs substitutes values for free symbols in v. Unlisted symbols are left
// in place. If the result has no free symbols it is folded to a Num.
func Subs(v Value, m map[string]Value) Value {
	s, ok := v.(Symbolic)
	if !ok {
		return v
	}
	out := Symbolic{n: subsNode(s.n, m)}
	if len(Symbols(out)) == 0 {
		if num, err := evalNode(out.n); err == nil {
			return Num(num)
		}
	}
	return out
}

func subsNode(n *node, m map[string]Value) *node {
	if n.kind == kindSym {
		if repl, ok := m[n.name]; ok {
			return toNode(repl)
		}
		return n
	}
	if len(n.args) == 0 {
		return n
	}
	args := make([]*node, len(n.args))
	for i, a := range n.args {
		args[i] = subsNode(a, m)
	}
	return &node{kind: n.kind, args: args}
}

func toNode(v Value) *node {
	switch val := v.(type) {
	case Num:
		return &node{kind: kindConst, val: complex128(val)}
	case Symbolic:
		return val.n
	default:
		panic(fmt.Sprintf("expr: unknown value type %T", v))
	}
}

// Equal reports exact equality of two values: numeric values compare
// exactly, symbolic values compare structurally. A numeric and a symbolic
// value are never equal.
func Equal(a, b Value) bool {
	an, aok := a.(Num)
	bn, bok := b.(Num)
	if aok && bok {
		return an == bn
	}
	as, aok := a.(Symbolic)
	bs, bok := b.(Symbolic)
	if aok && bok {
		return equalNode(as.n, bs.n)
	}
	return false
}

func equalNode(a, b *node) bool {
	if a.kind != b.kind || a.name != b.name || a.val != b.val {
		return false
	}
	if len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if !equalNode(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

func (v Num) String() string {
	c := complex128(v)
	if imag(c) == 0 {
		return strconv.FormatFloat(real(c), 'g', -1, 64)
	}
	if real(c) == 0 {
		return strconv.FormatFloat(imag(c), 'g', -1, 64) + "i"
	}
	return strconv.FormatComplex(c, 'g', -1, 128)
}

func (v Symbolic) String() string {
	var b strings.Builder
	renderNode(&b, v.n)
	return b.String()
}

var kindNames = map[nodeKind]string{
	kindAdd: "+", kindSub: "-", kindMul: "*", kindDiv: "/", kindPow: "^",
	kindSin: "sin", kindCos: "cos", kindTan: "tan",
	kindExp: "exp", kindSqrt: "sqrt",
}

func renderNode(b *strings.Builder, n *node) {
	switch n.kind {
	case kindSym:
		b.WriteString(n.name)
	case kindConst:
		b.WriteString(Num(n.val).String())
	case kindPi:
		b.WriteString("pi")
	case kindNeg:
		b.WriteString("-(")
		renderNode(b, n.args[0])
		b.WriteString(")")
	case kindAdd, kindSub, kindMul, kindDiv, kindPow:
		b.WriteString("(")
		renderNode(b, n.args[0])
		b.WriteString(" " + kindNames[n.kind] + " ")
		renderNode(b, n.args[1])
		b.WriteString(")")
	default:
		b.WriteString(kindNames[n.kind] + "(")
		renderNode(b, n.args[0])
		b.WriteString(")")
	}
}

// Hash returns a stable string key for a value, used for instance equality
// and map keys. Distinct expressions render distinctly enough for gate
// identity purposes.
func Hash(v Value) string {
	return v.String()
}

// SortedUnique sorts and deduplicates symbol name lists.
func SortedUnique(names []string) []string {
	out := slices.Clone(names)
	sort.Strings(out)
	return slices.Compact(out)
}
