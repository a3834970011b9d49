package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/parquet"
)

// ErrNoHistory is returned when an export finds no recorded runs.
var ErrNoHistory = errors.New("no aggregation history found to export")

// ExecuteHistoryExport writes the aggregation history to two Parquet files,
// <outputFile>.aggregation_runs.parquet and <outputFile>.move_totals.parquet.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured, set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total aggregation runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve aggregation runs: %w", err)
	}
	totals, err := store.GetAllMoveTotals()
	if err != nil {
		return fmt.Errorf("failed to retrieve move totals: %w", err)
	}

	runsFile := outputFile + ".aggregation_runs.parquet"
	runRows := parquet.ConvertAggregationRunRecords(runs)
	if err := parquet.WriteAggregationRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write aggregation runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d aggregation runs to: %s\n", len(runRows), runsFile)

	totalsFile := outputFile + ".move_totals.parquet"
	totalRows := parquet.ConvertMoveTotalRecords(totals)
	if err := parquet.WriteMoveTotalsParquet(totalRows, totalsFile); err != nil {
		return fmt.Errorf("failed to write move totals: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d move totals to: %s\n", len(totalRows), totalsFile)
	return nil
}
