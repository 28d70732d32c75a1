package cli

import (
	"bufio"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/nbcell/internal/eval"
	"github.com/roach88/nbcell/internal/session"
)

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive cell evaluation loop",
		Long: `Start an interactive loop reading cells from stdin.

A cell is terminated by a blank line. Each cell is evaluated against the
same persistent session; "it" refers to the last statement result and
"itN" to the result of cell N.

Example:
  nbcell repl
  nbcell repl --config kernel.cue --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(rootOpts, cmd)
		},
	}
}

func runRepl(opts *RootOptions, cmd *cobra.Command) error {
	kernel, err := loadKernel(opts)
	if err != nil {
		return err
	}

	sess, err := session.New(
		session.WithDisplayOptions(kernel.DisplayOptions()),
		session.WithImports(kernel.Imports...),
		session.WithPreamble(kernel.Preamble...),
		session.WithStdout(cmd.OutOrStdout()),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "create session", err)
	}

	// One evaluation in flight at a time: the loop below is the required
	// per-session serialization.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := eval.New(sess)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	count := 1
	var lines []string

	fmt.Fprintf(cmd.OutOrStdout(), "In [%d]: ", count)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
			continue
		}

		cellText := strings.Join(lines, "\n")
		lines = lines[:0]
		if strings.TrimSpace(cellText) != "" {
			records := engine.Evaluate(ctx, count, cellText)
			if err := formatter.Records(records); err != nil {
				return err
			}
			count++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "In [%d]: ", count)
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "read input", err)
	}
	return nil
}
