// Command nbcell evaluates notebook-style Go cells against a persistent
// interpreter session.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/nbcell/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
