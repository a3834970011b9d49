// Package core has core logic for parsing replays and aggregating move statistics.
package core

import (
	"context"

	"github.com/huangsam/slipstat/core/moves"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/outwriter"
	"github.com/huangsam/slipstat/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteParse decodes a single replay and prints its GameRecord.
// It serves as the main entry point for the 'parse' command.
func ExecuteParse(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	record, err := GetParseResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := persistRecord(ctx, cfg, record); err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteGame(record, cfg)
}

// ExecuteAggregate folds every GameRecord of the configured source and prints the statistics.
// It serves as the main entry point for the 'aggregate' command.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, err := GetAggregateResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteStats(report, cfg)
}

// ExecuteMoves prints the move catalog and technique rules.
func ExecuteMoves(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteCatalog(GetCatalog(), cfg)
}

// GetCatalog returns the action state table and technique rules.
func GetCatalog() schema.CatalogListing {
	return schema.CatalogListing{
		Moves:      moves.Entries(),
		Techniques: moves.Techniques(),
	}
}
