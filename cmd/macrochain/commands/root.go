package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "macrochain",
	Short: "MacroChain - educational crypto market research",
	Long: `MacroChain Unified CLI

Structured educational research reports about cryptocurrency market
conditions, built from fixed analytical frameworks. No live market data,
no financial advice.

Usage:
  go run ./cmd/macrochain [command]

Examples:
  go run ./cmd/macrochain api
  go run ./cmd/macrochain analyze "How is Bitcoin's market structure?"
  go run ./cmd/macrochain scheduler
  go run ./cmd/macrochain version`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
