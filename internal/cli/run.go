package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/qopher/qopher/gates"
	"github.com/qopher/qopher/internal/circuitfile"
	"github.com/qopher/qopher/internal/testutil"
	"github.com/qopher/qopher/internal/trace"
	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Circuit string
	Trials  int
	Seed    uint64
	Evolve  bool
	TraceDB string
}

// RunResult is the structured output of a run.
type RunResult struct {
	Circuit       string             `json:"circuit" yaml:"circuit"`
	Trials        int                `json:"trials" yaml:"trials"`
	Counts        map[string]int     `json:"counts,omitempty" yaml:"counts,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty" yaml:"probabilities,omitempty"`
	Norm          float64            `json:"norm" yaml:"norm"`
}

// NewRunCommand creates the "run" command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	runOpts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <circuits-dir>",
		Short: "Execute a circuit",
		Long: `Execute a named circuit from a CUE circuit directory.

By default the circuit runs as a pure state from |0...0> and sampled
measurement outcomes are tallied over --trials runs. With --evolve the
circuit evolves a density state once and basis probabilities are
reported instead of sampled counts. With --trace each run is recorded
to a SQLite run log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			cmd.SilenceUsage = true

			circ, err := loadNamedCircuit(args[0], runOpts.Circuit)
			if err != nil {
				formatter.Error(circuitfile.ErrCodeCompile, err.Error(), nil)
				return WrapExitError(ExitCommandError, "loading circuit", err)
			}

			result, err := executeRun(circ, runOpts)
			if err != nil {
				formatter.Error(circuitfile.ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, "executing circuit", err)
			}

			if opts.Format != "text" {
				return formatter.Success(result)
			}
			printRunResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&runOpts.Circuit, "circuit", "", "circuit name to execute (required)")
	cmd.Flags().IntVar(&runOpts.Trials, "trials", 1, "number of sampled runs")
	cmd.Flags().Uint64Var(&runOpts.Seed, "seed", 0, "fixed seed for measurement draws (0 = nondeterministic)")
	cmd.Flags().BoolVar(&runOpts.Evolve, "evolve", false, "evolve a density state instead of sampling")
	cmd.Flags().StringVar(&runOpts.TraceDB, "trace", "", "record runs to a SQLite run log at this path")
	cmd.MarkFlagRequired("circuit")

	return cmd
}

func loadNamedCircuit(dir, name string) (*ops.Circuit, error) {
	loaded, errs := circuitfile.Load(dir, gates.Default(), circuitfile.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	for _, c := range loaded.Circuits {
		if c.Name == name {
			return c.Circuit, nil
		}
	}
	return nil, fmt.Errorf("circuit %q not found in %s", name, dir)
}

// seeded rewires the circuit's measurements onto a fixed-seed source.
// The evolve and recorded paths execute the circuit directly, without a
// Sampler to carry the draw source, so --seed is applied here.
func seeded(circ *ops.Circuit, seed uint64) (*ops.Circuit, error) {
	if seed == 0 {
		return circ, nil
	}
	return ops.RewireMeasurements(circ, testutil.SeededRand(seed))
}

func executeRun(circ *ops.Circuit, runOpts *RunOptions) (*RunResult, error) {
	result := &RunResult{Circuit: runOpts.Circuit, Trials: runOpts.Trials}

	if runOpts.Evolve {
		sim, cleanup, err := buildSimulator(circ, runOpts)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		final, err := sim.Evolve(state.ZeroDensity(circ.Qubits()...))
		if err != nil {
			return nil, err
		}
		result.Trials = 1
		result.Norm = final.Norm()
		result.Probabilities = basisProbabilities(final.Qubits(), final.Probabilities())
		return result, nil
	}

	if runOpts.TraceDB != "" {
		return runRecorded(circ, runOpts, result)
	}

	var sopts []ops.SamplerOption
	if runOpts.Seed != 0 {
		sopts = append(sopts, ops.SampleWithRand(testutil.SeededRand(runOpts.Seed)))
	}
	sampler, err := ops.NewSampler(circ, sopts...)
	if err != nil {
		return nil, err
	}
	counts, last, err := sampler.Sample(runOpts.Trials)
	if err != nil {
		return nil, err
	}
	result.Counts = counts
	result.Norm = last.Norm()
	return result, nil
}

// runRecorded executes each trial through a recording backend so every
// step lands in the run log.
func runRecorded(circ *ops.Circuit, runOpts *RunOptions, result *RunResult) (*RunResult, error) {
	circ, err := seeded(circ, runOpts.Seed)
	if err != nil {
		return nil, err
	}
	store, err := trace.Open(runOpts.TraceDB)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rec := trace.NewRecorder(circ, store, trace.WithCircuitName(runOpts.Circuit))
	addrs := ops.MeasuredAddrs(circ)
	counts := make(map[string]int)
	var last *state.Ket
	for i := 0; i < runOpts.Trials; i++ {
		final, err := rec.Run(state.ZeroKet(circ.Qubits()...))
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		counts[ops.OutcomeLabel(final.Memory(), addrs)]++
		last = final
	}
	result.Counts = counts
	result.Norm = last.Norm()
	return result, nil
}

// buildSimulator picks the plain or recording backend for evolve mode.
func buildSimulator(circ *ops.Circuit, runOpts *RunOptions) (ops.Simulator, func(), error) {
	circ, err := seeded(circ, runOpts.Seed)
	if err != nil {
		return nil, nil, err
	}
	if runOpts.TraceDB == "" {
		return ops.NewCircuitSimulator(circ), func() {}, nil
	}
	store, err := trace.Open(runOpts.TraceDB)
	if err != nil {
		return nil, nil, err
	}
	rec := trace.NewRecorder(circ, store, trace.WithCircuitName(runOpts.Circuit))
	return rec, func() { store.Close() }, nil
}

// basisProbabilities labels a probability vector with basis bitstrings.
func basisProbabilities(qubits []state.Qubit, probs []float64) map[string]float64 {
	out := make(map[string]float64, len(probs))
	n := len(qubits)
	for i, p := range probs {
		out[fmt.Sprintf("%0*b", n, i)] = p
	}
	return out
}

func printRunResult(cmd *cobra.Command, result *RunResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "circuit: %s\n", result.Circuit)
	fmt.Fprintf(w, "trials: %d\n", result.Trials)
	if result.Counts != nil {
		labels := sortedKeys(result.Counts)
		fmt.Fprintln(w, "counts:")
		for _, label := range labels {
			fmt.Fprintf(w, "  %s: %d\n", display(label), result.Counts[label])
		}
	}
	if result.Probabilities != nil {
		labels := sortedKeys(result.Probabilities)
		fmt.Fprintln(w, "probabilities:")
		for _, label := range labels {
			fmt.Fprintf(w, "  %s: %.6f\n", label, result.Probabilities[label])
		}
	}
	fmt.Fprintf(w, "norm: %.8f\n", result.Norm)
}

// display renders an empty outcome label (a circuit with no
// measurements) readably.
func display(label string) string {
	if label == "" {
		return "(none)"
	}
	return label
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
