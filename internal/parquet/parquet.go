// Package parquet provides data structures and functions for exporting slipstat
// move data and aggregation history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/slipstat/schema"
	"github.com/parquet-go/parquet-go"
)

// AggregationRun represents one aggregation run with metadata.
// This struct maps to the slipstat_aggregation_runs database table.
type AggregationRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalGames is the number of records folded into the result
	TotalGames int32 `parquet:"total_games,snappy"`

	// SkippedSources is the number of unreadable or malformed records
	SkippedSources int32 `parquet:"skipped_sources,snappy"`

	// Source is the directory or Redis list the run read from
	Source string `parquet:"source,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// MoveTotal is one cross-game move total of a run.
// This struct maps to the slipstat_move_totals database table.
type MoveTotal struct {
	RunID      int64  `parquet:"run_id,snappy"`
	MoveName   string `parquet:"move_name,snappy"`
	TotalCount int64  `parquet:"total_count,snappy"`
}

// MoveCountRow is one (player, move) count, the flat shape of a PlayerMoveRecord.
type MoveCountRow struct {
	Port      int32  `parquet:"port,snappy"`
	Character string `parquet:"character,snappy,dict"`
	Move      string `parquet:"move,snappy,dict"`
	Count     int64  `parquet:"count,snappy"`
}

// WriteRows writes rows to w with a schema inferred from T's struct tags.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteAggregationRunsParquet writes aggregation runs to a Parquet file.
func WriteAggregationRunsParquet(data []AggregationRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteMoveTotalsParquet writes move totals to a Parquet file.
func WriteMoveTotalsParquet(data []MoveTotal, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertAggregationRunRecords converts store records to Parquet rows.
func ConvertAggregationRunRecords(records []schema.AggregationRunRecord) []AggregationRun {
	result := make([]AggregationRun, len(records))
	for i, r := range records {
		result[i] = AggregationRun{
			RunID:          r.RunID,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			RunDurationMs:  r.RunDurationMs,
			TotalGames:     r.TotalGames,
			SkippedSources: r.SkippedSources,
			Source:         r.Source,
			ConfigParams:   r.ConfigParams,
		}
	}
	return result
}

// ConvertMoveTotalRecords converts store records to Parquet rows.
func ConvertMoveTotalRecords(records []schema.MoveTotalRecord) []MoveTotal {
	result := make([]MoveTotal, len(records))
	for i, r := range records {
		result[i] = MoveTotal{RunID: r.RunID, MoveName: r.MoveName, TotalCount: r.TotalCount}
	}
	return result
}

// MoveCountRows flattens player records in player order, moves in name order.
func MoveCountRows(players []schema.PlayerMoveRecord) []MoveCountRow {
	var rows []MoveCountRow
	for _, p := range players {
		for _, name := range p.Moves.Names() {
			rows = append(rows, MoveCountRow{
				Port:      int32(p.Port),
				Character: p.Character,
				Move:      name,
				Count:     int64(p.Moves[name]),
			})
		}
	}
	return rows
}
