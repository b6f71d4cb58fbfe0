package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qopher/qopher/gates"
	"github.com/qopher/qopher/internal/circuitfile"
)

// ValidationResult summarizes a validate run for structured output.
type ValidationResult struct {
	Dir       string   `json:"dir" yaml:"dir"`
	FileCount int      `json:"file_count" yaml:"file_count"`
	Circuits  []string `json:"circuits" yaml:"circuits"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewValidateCommand creates the "validate" command. It loads every
// circuit in a directory against the standard catalog and reports all
// errors rather than stopping at the first.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <circuits-dir>",
		Short: "Validate circuit definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			cmd.SilenceUsage = true

			loaded, errs := circuitfile.Load(args[0], gates.Default(), circuitfile.LoadModeCollectAll)

			result := ValidationResult{Dir: args[0]}
			if loaded != nil {
				result.FileCount = loaded.FileCount
				for _, c := range loaded.Circuits {
					result.Circuits = append(result.Circuits, c.Name)
				}
			}
			for _, err := range errs {
				result.Errors = append(result.Errors, err.Error())
			}

			if len(errs) > 0 {
				if opts.Format != "text" {
					if err := formatter.Error(circuitfile.ErrCodeCompile, "validation failed", result); err != nil {
						return err
					}
				} else {
					for _, msg := range result.Errors {
						fmt.Fprintln(cmd.OutOrStdout(), msg)
					}
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(errs)))
			}

			formatter.VerboseLog("loaded %d file(s)", result.FileCount)
			if opts.Format != "text" {
				return formatter.Success(result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d circuit(s) in %d file(s)\n", len(result.Circuits), result.FileCount)
			for _, name := range result.Circuits {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			return nil
		},
	}
}
