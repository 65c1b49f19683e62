// Package main provides the CLI for the LeapQA dataset quality engine.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/leapqa/internal/cli"
	"github.com/leapstack-labs/leapqa/internal/cli/commands"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, commands.ErrValidationFailed) {
			// The report itself is the diagnostic; no banner needed.
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
