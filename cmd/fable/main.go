// Command fable is the project toolkit CLI: validate, inspect, migrate,
// play, and archive project documents.
package main

import (
	"fmt"
	"os"

	"github.com/fable2d/fable/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
