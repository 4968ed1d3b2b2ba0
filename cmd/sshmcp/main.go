// Package main is the entry point for the sshmcp CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/sshmcp/cmd/sshmcp/commands"
	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *sshmcperrors.ExitError
	if errors.As(err, &exitErr) {
		// A nil inner error means the delegated process already wrote its
		// own output; only the exit code is relayed.
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
			}
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(sshmcperrors.ExitUser)
}
