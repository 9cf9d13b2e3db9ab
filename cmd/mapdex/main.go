// Package main is the entry point for the mapdex CLI tool.
package main

import (
	"os"

	"mapdex/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
