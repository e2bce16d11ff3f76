// Package main is the entry point for the freight-rate CLI.
package main

import (
	"os"

	"freightrate/cmd/freight-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
