package schema

import "time"

// AggregationRunRecord represents a row from the slipstat_aggregation_runs table.
type AggregationRunRecord struct {
	RunID          int64
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalGames     int32
	SkippedSources int32
	Source         string
	ConfigParams   *string
}

// MoveTotalRecord represents a row from the slipstat_move_totals table.
type MoveTotalRecord struct {
	RunID      int64
	MoveName   string
	TotalCount int64
}

// AggregateReport wraps AggregatedStats with bookkeeping about the sources read.
type AggregateReport struct {
	Stats        AggregatedStats `json:"stats"`
	Sources      int             `json:"sources"`
	Skipped      int             `json:"skipped"`       // unreadable or malformed
	WithoutMoves int             `json:"without_moves"` // readable but never extracted
	Totals       MoveTotals      `json:"-"`             // cross-game counts behind the summary
}
