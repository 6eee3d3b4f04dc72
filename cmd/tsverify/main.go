// Package main provides the entry point for the tsverify CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/opencode-ai/tsverify/cmd/tsverify/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Aborts have already been reported.
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
