package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/nbcell/internal/harness"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run all notebook scenarios in a directory",
		Long: `Run every *.yaml scenario under the given directory and report
pass/fail per scenario. Each scenario gets a fresh session.

Example:
  nbcell test ./scenarios
  nbcell test --config kernel.cue ./scenarios`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, cmd, args[0])
		},
	}
}

func runScenarios(opts *RootOptions, cmd *cobra.Command, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return WrapExitError(ExitCommandError, "glob scenarios", err)
	}
	if len(paths) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files found in %s", dir))
	}
	sort.Strings(paths)

	kernel, err := loadKernel(opts)
	if err != nil {
		return err
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	failed := 0
	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			formatter.Errorf("%s: %v", path, err)
			failed++
			continue
		}

		result, err := harness.Run(cmd.Context(), scenario, kernel)
		if err != nil {
			formatter.Errorf("%s: %v", scenario.Name, err)
			failed++
			continue
		}

		if result.Passed() {
			fmt.Fprintf(cmd.OutOrStdout(), "PASS %s (%d cells)\n", scenario.Name, len(result.Cells))
			continue
		}

		failed++
		fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", scenario.Name)
		for _, failure := range result.Failures {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", failure)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(paths)))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d scenarios\n", len(paths))
	return nil
}
