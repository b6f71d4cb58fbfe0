package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qopher/qopher/internal/trace"
)

// TraceRun is one run row for structured output.
type TraceRun struct {
	Token    string `json:"token" yaml:"token"`
	Circuit  string `json:"circuit" yaml:"circuit"`
	Backend  string `json:"backend" yaml:"backend"`
	Mode     string `json:"mode" yaml:"mode"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Started  string `json:"started" yaml:"started"`
	Finished string `json:"finished,omitempty" yaml:"finished,omitempty"`
}

// TraceStep is one step row for structured output.
type TraceStep struct {
	Seq    int64   `json:"seq" yaml:"seq"`
	Op     string  `json:"op" yaml:"op"`
	Qubits string  `json:"qubits,omitempty" yaml:"qubits,omitempty"`
	Norm   float64 `json:"norm" yaml:"norm"`
}

// NewTraceCommand creates the "trace" command for inspecting run logs.
func NewTraceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <run-log.db> [token]",
		Short: "Inspect a recorded run log",
		Long: `List recorded runs, or the steps of one run when a token is given.

Run logs are written by "run --trace". Tokens are UUIDv7, so the run
listing is reverse chronological.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			cmd.SilenceUsage = true

			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				formatter.Error("E005", fmt.Sprintf("run log not found: %s", args[0]), nil)
				return NewExitError(ExitCommandError, "run log not found")
			}
			store, err := trace.Open(args[0])
			if err != nil {
				formatter.Error("E004", err.Error(), nil)
				return WrapExitError(ExitCommandError, "opening run log", err)
			}
			defer store.Close()

			if len(args) == 2 {
				return showSteps(cmd, formatter, opts, store, args[1])
			}
			return showRuns(cmd, formatter, opts, store)
		},
	}
}

func showRuns(cmd *cobra.Command, formatter *OutputFormatter, opts *RootOptions, store *trace.Store) error {
	runs, err := store.Runs(cmd.Context())
	if err != nil {
		formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitFailure, "listing runs", err)
	}

	rows := make([]TraceRun, 0, len(runs))
	for _, r := range runs {
		row := TraceRun{
			Token:   r.Token,
			Circuit: r.Circuit,
			Backend: r.Backend,
			Mode:    r.Mode,
			Status:  r.Status,
			Error:   r.Error,
			Started: r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if !r.FinishedAt.IsZero() {
			row.Finished = r.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		rows = append(rows, row)
	}

	if opts.Format != "text" {
		return formatter.Success(rows)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-38s %-12s %-8s %-7s %s\n", "TOKEN", "CIRCUIT", "MODE", "STATUS", "STARTED")
	for _, row := range rows {
		fmt.Fprintf(w, "%-38s %-12s %-8s %-7s %s\n", row.Token, row.Circuit, row.Mode, row.Status, row.Started)
	}
	return nil
}

func showSteps(cmd *cobra.Command, formatter *OutputFormatter, opts *RootOptions, store *trace.Store, token string) error {
	steps, err := store.Steps(cmd.Context(), token)
	if err != nil {
		formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitFailure, "listing steps", err)
	}
	if len(steps) == 0 {
		formatter.Error("E005", fmt.Sprintf("no steps recorded for run %s", token), nil)
		return NewExitError(ExitFailure, "no steps recorded")
	}

	rows := make([]TraceStep, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, TraceStep{Seq: s.Seq, Op: s.Op, Qubits: s.Qubits, Norm: s.Norm})
	}

	if opts.Format != "text" {
		return formatter.Success(rows)
	}
	w := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(w, "%4d  %-40s norm=%.8f\n", row.Seq, row.Op, row.Norm)
	}
	return nil
}
