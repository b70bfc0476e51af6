package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/benchsplit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// ExitError paths already wrote formatted output through the
		// command's writers; only flag and usage errors still need printing.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
