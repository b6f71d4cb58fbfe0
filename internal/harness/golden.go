package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/qopher/qopher/state"
)

// Snapshot renders a scenario result as canonical text for golden file
// comparison: sorted outcome counts and sorted final memory keys, NFC
// normalized so qubit labels with combining characters compare stably.
//
// Only scripted scenarios (fixed draws or a fixed seed) produce stable
// snapshots; the caller owns that precondition.
func Snapshot(scenario *Scenario, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&b, "circuit: %s\n", scenario.Circuit)
	fmt.Fprintf(&b, "trials: %d\n", result.Trials)

	labels := make([]string, 0, len(result.Counts))
	for label := range result.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	fmt.Fprintf(&b, "counts:\n")
	for _, label := range labels {
		fmt.Fprintf(&b, "  %s: %d\n", label, result.Counts[label])
	}

	keys := result.Memory.Keys()
	state.SortAddrs(keys)
	fmt.Fprintf(&b, "memory:\n")
	for _, k := range keys {
		v, _ := result.Memory.Value(k)
		fmt.Fprintf(&b, "  %s: %v\n", k, v)
	}
	fmt.Fprintf(&b, "norm: %.8f\n", result.FinalNorm)

	return []byte(norm.NFC.String(b.String()))
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden. Regenerate golden files with:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails; snapshot mismatch fails
// the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an already-computed result against the
// scenario's golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
}
