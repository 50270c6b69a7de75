// Package main is the entry point for the flowtrend scanner CLI.
package main

import (
	"os"

	"github.com/vamsirch/flowtrend-scanner/cmd/scanner/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
