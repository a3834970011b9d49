package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/slipstat/core/agg"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/records"
	"github.com/huangsam/slipstat/schema"
)

// GetAggregateResult folds the configured record source into a report and,
// when a history store is configured, records the run.
func GetAggregateResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.AggregateReport, error) {
	src, closeSource, err := openRecordSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	if !shouldSuppressHeader(ctx) {
		logAggregateHeader(src.Describe(), cfg.Workers)
	}

	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	return aggregateWithHistory(ctx, cfg, src, history)
}

// aggregateWithHistory runs the fold between BeginRun and EndRun. History
// failures are logged and never fail the aggregation.
func aggregateWithHistory(ctx context.Context, cfg *contract.Config, src contract.RecordSource, history contract.HistoryStore) (*schema.AggregateReport, error) {
	var runID int64
	if history != nil {
		configParams := map[string]any{
			"source":  string(cfg.Source),
			"pattern": cfg.Pattern,
			"workers": cfg.Workers,
		}
		var err error
		runID, err = history.BeginRun(time.Now(), src.Describe(), configParams)
		if err != nil {
			contract.LogWarn("History tracking initialization failed", err)
		}
	}

	report, err := agg.AggregateSource(ctx, src, cfg.Workers)
	if err != nil {
		return nil, err
	}

	if history != nil && runID > 0 {
		if err := history.EndRun(runID, time.Now(), int(report.Stats.TotalGames), report.Skipped); err != nil {
			contract.LogWarn("History tracking completion failed", err)
		}
		if err := history.RecordMoveTotals(runID, report.Totals); err != nil {
			contract.LogWarn("History move totals failed", err)
		}
	}
	return report, nil
}

// openRecordSource builds the RecordSource selected by cfg.Source and a func that releases it.
func openRecordSource(ctx context.Context, cfg *contract.Config) (contract.RecordSource, func(), error) {
	switch cfg.Source {
	case schema.RedisSource:
		store, err := records.NewRedisStore(cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("%w: %w", agg.ErrNoSources, err)
		}
		return store, func() { _ = store.Close() }, nil
	case schema.DirSource, "":
		return records.NewDirSource(cfg.Target, cfg.Pattern), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported record source: %s", cfg.Source)
	}
}
