package cmd

import (
	"github.com/huangsam/slipstat/core"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/spf13/cobra"
)

// aggregateCmd folds saved records into cross-game statistics.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate [record-dir]",
	Short: "Aggregate move counts across saved game records.",
	Long: `Combine previously parsed game records into cross-game move statistics.

Records are read from a directory of JSON files (default) or from a Redis list
filled by 'slipstat parse --publish'. Unreadable records are skipped and counted.

Reports:
- Total games and players analyzed
- The most common move across all games
- The average number of moves per game
- Per-player move breakdowns

Examples:
  # Aggregate every record in a directory
  slipstat aggregate records/

  # Only tournament sets, as CSV
  slipstat aggregate records/ --pattern 'top8-*.json' --output csv

  # Aggregate published records and track the run
  slipstat aggregate --source redis --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return contract.RevalidateAggregate(cfg)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot aggregate records", err)
		}
	},
}
