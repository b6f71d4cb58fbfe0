package circuitfile

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/qopher/qopher/expr"
	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

// Circuit is one compiled circuit plus its declared name.
type Circuit struct {
	Name    string
	Circuit *ops.Circuit
}

// CompileCircuit parses a CUE value into a circuit. The value should be
// the circuit struct itself; its path label becomes the circuit name.
// Gate names resolve against reg.
func CompileCircuit(v cue.Value, reg *ops.Registry) (*Circuit, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	out := &Circuit{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		out.Name = labels[len(labels)-1].String()
	}

	opsVal := v.LookupPath(cue.ParsePath("ops"))
	if !opsVal.Exists() {
		return nil, &CompileError{
			Field:   "ops",
			Message: "ops list is required",
			Pos:     v.Pos(),
		}
	}
	elems, err := parseOps(opsVal, reg)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, &CompileError{
			Field:   "ops",
			Message: "at least one operation is required",
			Pos:     opsVal.Pos(),
		}
	}

	var copts []ops.CircuitOption
	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if qubitsVal.Exists() {
		qubits, err := parseQubits(qubitsVal)
		if err != nil {
			return nil, err
		}
		copts = append(copts, ops.WithQubits(qubits...))
	}

	circ, err := ops.NewCircuit(elems, copts...)
	if err != nil {
		return nil, &CompileError{
			Field:   "qubits",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	out.Circuit = circ
	return out, nil
}

// parseOps compiles a CUE list of operation structs.
func parseOps(v cue.Value, reg *ops.Registry) ([]ops.Operation, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var elems []ops.Operation
	for iter.Next() {
		op, err := parseOp(iter.Value(), reg)
		if err != nil {
			return nil, err
		}
		elems = append(elems, op)
	}
	return elems, nil
}

// parseOp dispatches on which discriminating field the struct carries.
func parseOp(v cue.Value, reg *ops.Registry) (ops.Operation, error) {
	switch {
	case v.LookupPath(cue.ParsePath("gate")).Exists():
		return parseGate(v, reg)
	case v.LookupPath(cue.ParsePath("measure")).Exists():
		return parseMeasure(v)
	case v.LookupPath(cue.ParsePath("store")).Exists():
		return parseStore(v)
	case v.LookupPath(cue.ParsePath("cond")).Exists():
		return parseIf(v.LookupPath(cue.ParsePath("cond")), reg)
	case v.LookupPath(cue.ParsePath("reset")).Exists():
		return parseReset(v)
	case v.LookupPath(cue.ParsePath("barrier")).Exists():
		return parseBarrier(v)
	case v.LookupPath(cue.ParsePath("display")).Exists():
		return parseDisplay(v)
	case v.LookupPath(cue.ParsePath("moment")).Exists():
		return parseMoment(v, reg)
	default:
		return nil, &CompileError{
			Field:   "op",
			Message: "operation must have one of: gate, measure, store, cond, reset, barrier, display, moment",
			Pos:     v.Pos(),
		}
	}
}

func parseGate(v cue.Value, reg *ops.Registry) (ops.Operation, error) {
	name, err := v.LookupPath(cue.ParsePath("gate")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	gt, ok := reg.GateType(name)
	if !ok {
		return nil, &CompileError{
			Field:   "gate",
			Message: fmt.Sprintf("unknown gate %q", name),
			Pos:     v.Pos(),
		}
	}

	qubits, err := parseQubits(v.LookupPath(cue.ParsePath("on")))
	if err != nil {
		return nil, err
	}

	var args []expr.Value
	if params := gt.ParamNames(); len(params) > 0 {
		argsVal := v.LookupPath(cue.ParsePath("args"))
		if !argsVal.Exists() {
			return nil, &CompileError{
				Field:   "args",
				Message: fmt.Sprintf("gate %q requires args %v", name, params),
				Pos:     v.Pos(),
			}
		}
		for _, p := range params {
			pv := argsVal.LookupPath(cue.ParsePath(p))
			if !pv.Exists() {
				return nil, &CompileError{
					Field:   "args",
					Message: fmt.Sprintf("gate %q missing arg %q", name, p),
					Pos:     argsVal.Pos(),
				}
			}
			arg, err := parseParam(pv)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	g, err := gt.New(args, qubits...)
	if err != nil {
		return nil, &CompileError{
			Field:   "gate",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return g, nil
}

func parseMeasure(v cue.Value) (ops.Operation, error) {
	q, err := v.LookupPath(cue.ParsePath("measure")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var opts []ops.MeasureOption
	toVal := v.LookupPath(cue.ParsePath("to"))
	if toVal.Exists() {
		to, err := toVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		opts = append(opts, ops.MeasureTo(state.Addr(to)))
	}
	return ops.NewMeasure(state.Qubit(q), opts...), nil
}

func parseStore(v cue.Value) (ops.Operation, error) {
	key, err := v.LookupPath(cue.ParsePath("store")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return nil, &CompileError{
			Field:   "store",
			Message: "store requires a value",
			Pos:     v.Pos(),
		}
	}
	value, err := parseScalar(valueVal)
	if err != nil {
		return nil, err
	}
	return ops.NewStore(state.Addr(key), value), nil
}

func parseIf(v cue.Value, reg *ops.Registry) (ops.Operation, error) {
	key, err := v.LookupPath(cue.ParsePath("key")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	inner, err := parseOp(v.LookupPath(cue.ParsePath("op")), reg)
	if err != nil {
		return nil, err
	}
	var opts []ops.IfOption
	eqVal := v.LookupPath(cue.ParsePath("equals"))
	if eqVal.Exists() {
		expected, err := parseScalar(eqVal)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ops.IfExpecting(expected))
	}
	return ops.NewIf(inner, state.Addr(key), opts...), nil
}

func parseReset(v cue.Value) (ops.Operation, error) {
	qubits, err := parseQubits(v.LookupPath(cue.ParsePath("reset")))
	if err != nil {
		return nil, err
	}
	r, err := ops.NewReset(qubits...)
	if err != nil {
		return nil, &CompileError{Field: "reset", Message: err.Error(), Pos: v.Pos()}
	}
	return r, nil
}

func parseBarrier(v cue.Value) (ops.Operation, error) {
	qubits, err := parseQubits(v.LookupPath(cue.ParsePath("barrier")))
	if err != nil {
		return nil, err
	}
	b, err := ops.NewBarrier(qubits...)
	if err != nil {
		return nil, &CompileError{Field: "barrier", Message: err.Error(), Pos: v.Pos()}
	}
	return b, nil
}

func parseDisplay(v cue.Value) (ops.Operation, error) {
	key, err := v.LookupPath(cue.ParsePath("display")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	kind := "state"
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if kindVal.Exists() {
		kind, err = kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}
	switch kind {
	case "state":
		return ops.NewStateDisplay(state.Addr(key)), nil
	case "probability":
		return ops.NewProbabilityDisplay(state.Addr(key)), nil
	case "density":
		qubits, err := parseQubits(v.LookupPath(cue.ParsePath("on")))
		if err != nil {
			return nil, err
		}
		return ops.NewDensityDisplay(state.Addr(key), qubits...), nil
	default:
		return nil, &CompileError{
			Field:   "display",
			Message: fmt.Sprintf("unknown display kind %q (want state, probability, or density)", kind),
			Pos:     v.Pos(),
		}
	}
}

func parseMoment(v cue.Value, reg *ops.Registry) (ops.Operation, error) {
	elems, err := parseOps(v.LookupPath(cue.ParsePath("moment")), reg)
	if err != nil {
		return nil, err
	}
	m, err := ops.NewMoment(elems)
	if err != nil {
		return nil, &CompileError{Field: "moment", Message: err.Error(), Pos: v.Pos()}
	}
	return m, nil
}

func parseQubits(v cue.Value) ([]state.Qubit, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "on", Message: "qubit list is required", Pos: v.Pos()}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var qubits []state.Qubit
	for iter.Next() {
		q, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		qubits = append(qubits, state.Qubit(q))
	}
	return qubits, nil
}

// parseScalar converts a CUE leaf into a classical memory value.
func parseScalar(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return int(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind %v (want string, int, or bool)", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// parseParam converts a CUE value into a gate argument. Numbers become
// numeric values; strings are either short pi expressions or bare
// identifiers, which become free symbols.
func parseParam(v cue.Value) (expr.Value, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return expr.N(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		val, err := parseAngle(s)
		if err != nil {
			return nil, &CompileError{Field: "args", Message: err.Error(), Pos: v.Pos()}
		}
		return val, nil
	default:
		return nil, &CompileError{
			Field:   "args",
			Message: fmt.Sprintf("unsupported arg kind %v (want number or string)", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// parseAngle parses angle shorthand of the forms "pi", "pi/2", "3*pi",
// "3*pi/4", an optional leading minus on any of them, a plain number,
// or a bare identifier which becomes a free symbol.
func parseAngle(s string) (expr.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty angle")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}

	wrap := func(v expr.Value) expr.Value {
		if neg {
			return expr.Neg(v)
		}
		return v
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return wrap(expr.N(f)), nil
	}

	if !strings.Contains(s, "pi") {
		if !isIdent(s) {
			return nil, fmt.Errorf("invalid angle %q", s)
		}
		return wrap(expr.Symbol(s)), nil
	}

	val := expr.Pi
	num, rest, found := strings.Cut(s, "*pi")
	if found {
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid angle %q", s)
		}
		val = expr.Mul(expr.N(f), expr.Pi)
		s = "pi" + rest
	}
	if !strings.HasPrefix(s, "pi") {
		return nil, fmt.Errorf("invalid angle %q", s)
	}
	rest = strings.TrimSpace(s[len("pi"):])
	if rest == "" {
		return wrap(val), nil
	}
	if !strings.HasPrefix(rest, "/") {
		return nil, fmt.Errorf("invalid angle %q", s)
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(rest[1:]), 64)
	if err != nil || den == 0 {
		return nil, fmt.Errorf("invalid angle %q", s)
	}
	return wrap(expr.Div(val, expr.N(den))), nil
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// CompileError is a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
