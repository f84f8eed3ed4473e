package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrochain/macrochain/internal/report"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/logger"
)

// analyzeCmd runs a single research query and prints the report.
var analyzeCmd = &cobra.Command{
	Use:   "analyze \"<query>\"",
	Short: "Run one research query and print the report",
	Long: `Runs the full research pipeline for a single query and prints the
formatted report to stdout.

Example:
  go run ./cmd/macrochain analyze "How healthy is the Bitcoin network?"
  go run ./cmd/macrochain analyze "Compare market conditions" --assets btc,eth`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeAssets []string

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringSliceVar(&analyzeAssets, "assets", nil, "explicit asset list (overrides detection)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	if err := research.ValidateKnowledge(); err != nil {
		return fmt.Errorf("knowledge validation: %w", err)
	}

	pipeline := research.NewPipeline(log)
	result, err := pipeline.Execute(cmd.Context(), args[0], analyzeAssets)
	if err != nil {
		return err
	}

	doc := report.Format(result)
	fmt.Print(doc.Markdown())
	return nil
}
