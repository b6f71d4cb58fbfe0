package harness

import (
	"fmt"

	"github.com/qopher/qopher/gates"
	"github.com/qopher/qopher/internal/circuitfile"
	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

// Result is the outcome of executing a scenario.
type Result struct {
	// Trials is the number of executions performed.
	Trials int

	// Counts maps outcome bitstrings to how many trials produced them.
	// The bitstring orders measurement addresses canonically, one
	// character per address; '?' marks an address a trial never wrote
	// (a measurement inside an untaken conditional).
	Counts map[string]int

	// Memory is the final classical memory of the last trial.
	Memory state.Memory

	// FinalNorm is the state norm after the last trial.
	FinalNorm float64

	// Errors collects assertion failures. Empty means the scenario
	// passed.
	Errors []string
}

// Passed reports whether all assertions held.
func (r *Result) Passed() bool { return len(r.Errors) == 0 }

// AddError records an assertion failure.
func (r *Result) AddError(msg string) { r.Errors = append(r.Errors, msg) }

// Run executes a scenario and returns the result. Execution errors are
// returned; assertion failures land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	circ, err := loadCircuit(scenario)
	if err != nil {
		return nil, err
	}

	trials := scenario.Trials
	if trials < 1 {
		trials = 1
	}
	var draw func() float64
	if len(scenario.Draws) > 0 {
		draw = testutil.NewSequenceRand(scenario.Draws...).Draw
		trials = 1
	} else {
		draw = testutil.SeededRand(scenario.Seed)
	}

	sampler, err := ops.NewSampler(circ, ops.SampleWithRand(draw))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	counts, last, err := sampler.Sample(trials)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{
		Trials:    trials,
		Counts:    counts,
		Memory:    last.Memory(),
		FinalNorm: last.Norm(),
	}
	EvaluateAssertions(result, scenario.Assertions)
	return result, nil
}

// loadCircuit loads the scenario's named circuit against the standard
// catalog.
func loadCircuit(scenario *Scenario) (*ops.Circuit, error) {
	loaded, errs := circuitfile.Load(scenario.Circuits, gates.Default(), circuitfile.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("scenario %s: loading circuits: %w", scenario.Name, errs[0])
	}
	for _, c := range loaded.Circuits {
		if c.Name == scenario.Circuit {
			return c.Circuit, nil
		}
	}
	return nil, fmt.Errorf("scenario %s: circuit %q not found in %s", scenario.Name, scenario.Circuit, scenario.Circuits)
}
