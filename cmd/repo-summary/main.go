// Package main is the entry point for repo-summary.
package main

import (
	"os"

	"github.com/opmodel/repo-summary/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:], os.Stdout, os.Stderr))
}
