package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qopher/qopher/gates"
)

// GateInfo describes one catalog entry for structured output.
type GateInfo struct {
	Name      string   `json:"name" yaml:"name"`
	Qubits    int      `json:"qubits" yaml:"qubits"`
	Controls  int      `json:"controls,omitempty" yaml:"controls,omitempty"`
	Params    []string `json:"params,omitempty" yaml:"params,omitempty"`
	Structure string   `json:"structure" yaml:"structure"`
	Hermitian bool     `json:"hermitian" yaml:"hermitian"`
}

// NewGatesCommand creates the "gates" command listing the standard
// catalog.
func NewGatesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gates",
		Short: "List the standard gate catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			reg := gates.Default()
			var infos []GateInfo
			for _, name := range reg.GateTypeNames() {
				gt, _ := reg.GateType(name)
				infos = append(infos, GateInfo{
					Name:      gt.Name(),
					Qubits:    gt.QubitCount(),
					Controls:  gt.ControlQubitCount(),
					Params:    gt.ParamNames(),
					Structure: gt.Structure().String(),
					Hermitian: gt.Hermitian(),
				})
			}

			if opts.Format != "text" {
				return formatter.Success(infos)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%-12s %-7s %-9s %-14s %-10s %s\n", "NAME", "QUBITS", "CONTROLS", "STRUCTURE", "HERMITIAN", "PARAMS")
			for _, info := range infos {
				fmt.Fprintf(&b, "%-12s %-7d %-9d %-14s %-10v %s\n",
					info.Name, info.Qubits, info.Controls, info.Structure, info.Hermitian,
					strings.Join(info.Params, ", "))
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}
