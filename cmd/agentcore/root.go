// Package main is the CLI entry point for the planning core demo.
package main

import (
	"fmt"
	"os"

	"github.com/kestrelbot/agentcore/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
