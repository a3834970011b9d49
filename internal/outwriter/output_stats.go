package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// PrintAggregateReport renders the cross-game statistics of a report in the
// configured output format. Structured output encodes the AggregatedStats itself.
func PrintAggregateReport(report *schema.AggregateReport, cfg *contract.Config) error {
	stats := report.Stats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMoves(w, stats.Players)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquetMoves(w, stats.Players)
		}, "Wrote Parquet")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printStatsText(w, report, colorsEnabled(w, cfg))
		}, "Wrote text")
	default:
		return fmt.Errorf("%w '%s'", schema.ErrUnsupportedFormat, cfg.Output)
	}
}

// printStatsText writes the narrative summary of an aggregation.
func printStatsText(w io.Writer, report *schema.AggregateReport, useColors bool) error {
	stats := report.Stats

	var b strings.Builder
	b.WriteString(contract.Paint(contract.HeadingColor, "Move Statistics Summary", useColors) + "\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Total games processed: %d\n", stats.TotalGames)
	fmt.Fprintf(&b, "Total players analyzed: %d\n", len(stats.Players))
	if report.Skipped > 0 {
		fmt.Fprintf(&b, "Records skipped: %d\n", report.Skipped)
	}
	if report.WithoutMoves > 0 {
		fmt.Fprintf(&b, "Records without move data: %d\n", report.WithoutMoves)
	}
	b.WriteString("\n")

	if name, ok := stats.MostCommonMove(); ok {
		fmt.Fprintf(&b, "Most common move: %s\n", contract.Paint(contract.MoveColor, name, useColors))
	}
	fmt.Fprintf(&b, "Average moves per game: %d\n", stats.AverageMovesPerGame())

	writePlayerBreakdown(&b, stats.Players, useColors)
	_, err := io.WriteString(w, b.String())
	return err
}
