package cmd

import (
	"github.com/huangsam/slipstat/core"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/spf13/cobra"
)

// movesCmd lists the move catalog.
var movesCmd = &cobra.Command{
	Use:   "moves",
	Short: "List the recognized action states and techniques.",
	Long: `Print the action state table used to classify frames along with the
compound technique rules layered on top of it.

Examples:
  slipstat moves
  slipstat moves --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMoves(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list moves", err)
		}
	},
}
