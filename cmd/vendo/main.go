// Package main is the entry point for the vendo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/vendocli/vendo/cmd/vendo/commands"
	"github.com/vendocli/vendo/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		code := errors.ExitUser

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Error())
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}

		os.Exit(code)
	}
}
