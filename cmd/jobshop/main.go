package main

// CLI entry point. All logic lives in internal/cli; main only wires up the
// root command and handles top-level errors.

import (
	"fmt"
	"os"

	"github.com/jobshop-dev/jobshop/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	rootCmd := cli.BuildCLI()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
