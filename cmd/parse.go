package cmd

import (
	"github.com/huangsam/slipstat/core"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/spf13/cobra"
)

// parseCmd decodes one replay and extracts per-player moves.
var parseCmd = &cobra.Command{
	Use:   "parse <replay.slp>",
	Short: "Parse a replay and count the moves of each player.",
	Long: `Decode a Slippi replay and classify every frame of every player into a move.

Produces a game record holding:
- Player count, stage and duration in frames
- Per-player character, stocks, costume and team
- Per-player move counts (unless --extract-moves=false)

Techniques (wavedash, l_cancel, shine, laser) are counted in addition to
the base moves they are built from.

Examples:
  # Show a readable summary
  slipstat parse game.slp

  # Metadata only, as JSON
  slipstat parse game.slp --extract-moves=false --output json

  # Save the record for later aggregation
  slipstat parse game.slp --save-dir records/

  # Publish the record to Redis for a shared aggregation
  slipstat parse game.slp --publish --redis-addr redis://localhost:6379/0`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteParse(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot parse replay", err)
		}
	},
}
