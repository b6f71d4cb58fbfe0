package harness

import (
	"fmt"
	"math"

	"github.com/qopher/qopher/state"
)

// normTol bounds how far the final norm may drift from 1.
const normTol = 1e-8

// EvaluateAssertions checks every assertion against the result,
// recording failures in result.Errors.
func EvaluateAssertions(result *Result, assertions []Assertion) {
	for i, a := range assertions {
		switch a.Type {
		case AssertDistribution:
			evaluateDistribution(result, i, &a)
		case AssertMemory:
			evaluateMemory(result, i, &a)
		case AssertNorm:
			if math.Abs(result.FinalNorm-1) > normTol {
				result.AddError(fmt.Sprintf("assertions[%d]: final norm %v, want 1", i, result.FinalNorm))
			}
		}
	}
}

// evaluateDistribution compares observed outcome frequencies against
// the expected distribution. Outcomes observed but not listed in expect
// are implicitly expected at frequency 0.
func evaluateDistribution(result *Result, index int, a *Assertion) {
	if result.Trials == 0 {
		result.AddError(fmt.Sprintf("assertions[%d]: no trials to evaluate", index))
		return
	}
	for label, want := range a.Expect {
		got := float64(result.Counts[label]) / float64(result.Trials)
		if math.Abs(got-want) > a.Tolerance {
			result.AddError(fmt.Sprintf(
				"assertions[%d]: outcome %q frequency %.4f, want %.4f ± %.4f",
				index, label, got, want, a.Tolerance))
		}
	}
	for label, count := range result.Counts {
		if _, listed := a.Expect[label]; listed {
			continue
		}
		got := float64(count) / float64(result.Trials)
		if got > a.Tolerance {
			result.AddError(fmt.Sprintf(
				"assertions[%d]: unexpected outcome %q at frequency %.4f",
				index, label, got))
		}
	}
}

// evaluateMemory pins a final memory entry of the last trial. YAML
// integers arrive as int, so measurement outcomes compare directly;
// booleans compare against 0/1 outcomes by truthiness.
func evaluateMemory(result *Result, index int, a *Assertion) {
	got, ok := result.Memory.Value(state.Addr(a.Key))
	if !ok {
		result.AddError(fmt.Sprintf("assertions[%d]: memory key %q not set", index, a.Key))
		return
	}
	if !memoryEqual(got, a.Value) {
		result.AddError(fmt.Sprintf("assertions[%d]: memory[%q] = %v, want %v", index, a.Key, got, a.Value))
	}
}

func memoryEqual(got, want any) bool {
	if got == want {
		return true
	}
	gb, gok := truthy(got)
	wb, wok := truthy(want)
	return gok && wok && gb == wb
}

func truthy(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int:
		if x == 0 || x == 1 {
			return x == 1, true
		}
	}
	return false, false
}
