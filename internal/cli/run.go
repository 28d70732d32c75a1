package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nbcell/internal/harness"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <notebook.yaml>",
		Short: "Run a notebook scenario file",
		Long: `Evaluate the cells of a notebook scenario file in order.

Cells run against one persistent session with execution counters 1, 2, 3...
Within a cell the first failure stops that cell; the notebook continues
with the next cell. Expectations in the file, if any, are checked.

Example:
  nbcell run examples/intro.yaml
  nbcell run --format json notebook.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotebook(rootOpts, cmd, args[0])
		},
	}
}

func runNotebook(opts *RootOptions, cmd *cobra.Command, path string) error {
	kernel, err := loadKernel(opts)
	if err != nil {
		return err
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load notebook", err)
	}

	result, err := harness.Run(cmd.Context(), scenario, kernel)
	if err != nil {
		return WrapExitError(ExitCommandError, "run notebook", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	for i, records := range result.Cells {
		if opts.Format == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "--- cell %d ---\n", i+1)
		}
		if err := formatter.Records(records); err != nil {
			return err
		}
	}

	if !result.Passed() {
		for _, failure := range result.Failures {
			formatter.Errorf("%s", failure)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation(s) failed", len(result.Failures)))
	}
	return nil
}
