// Package main implements repeat, a command line tool that drills markdown
// flashcards on a spaced repetition schedule kept in a local SQLite file.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd(newCLI(os.Stdout, os.Stderr)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
