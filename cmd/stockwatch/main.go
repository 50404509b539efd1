// Package main is the entry point for stockwatch.
package main

import (
	"fmt"
	"os"

	"stockwatch/internal/adapters/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
