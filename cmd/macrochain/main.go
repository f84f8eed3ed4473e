package main

import (
	"os"

	"github.com/macrochain/macrochain/cmd/macrochain/commands"
)

// main is the unified CLI entry point: go run ./cmd/macrochain [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
