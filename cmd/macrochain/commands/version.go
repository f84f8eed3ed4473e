package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrochain/macrochain/internal/research"
)

// versionCmd prints the pipeline version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pipeline version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("macrochain research pipeline v%s\n", research.PipelineVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
