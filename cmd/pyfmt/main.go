// Package main is the entry point for pyfmt.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/donaldgifford/pyfmt/internal/cmd"
	"github.com/donaldgifford/pyfmt/internal/runner"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "pyfmt: %v\n", err)
		os.Exit(runner.ExitError)
	}
}
