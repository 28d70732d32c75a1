// Package cli implements the nbcell command line interface: an
// interactive REPL, a notebook scenario runner, and a conformance test
// command, all thin shells over the evaluation engine.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nbcell/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional kernel config path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nbcell CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nbcell",
		Short: "nbcell - notebook cell evaluation for Go",
		Long:  "Evaluate notebook-style Go cells against a persistent interpreter session.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to kernel config (CUE)")

	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging sets the process-wide slog level from the verbose flag.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadKernel resolves the kernel config from the --config flag, falling
// back to the default kernel.
func loadKernel(opts *RootOptions) (*config.Kernel, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	kernel, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load kernel config", err)
	}
	return kernel, nil
}
