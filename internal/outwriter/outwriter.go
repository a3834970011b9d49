// Package outwriter renders game records, aggregated statistics and the move
// catalog in every supported output format.
package outwriter

import (
	"io"
	"os"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteGame prints a single GameRecord using the configured output format.
func (ow *OutWriter) WriteGame(record schema.GameRecord, cfg *contract.Config) error {
	return PrintGameRecord(record, cfg)
}

// WriteStats prints an aggregation report using the configured output format.
func (ow *OutWriter) WriteStats(report *schema.AggregateReport, cfg *contract.Config) error {
	return PrintAggregateReport(report, cfg)
}

// WriteCatalog prints the move catalog and technique rules using the configured output format.
func (ow *OutWriter) WriteCatalog(listing schema.CatalogListing, cfg *contract.Config) error {
	return PrintCatalog(listing, cfg)
}

// colorsEnabled reports whether colored text should be written to w.
// Color needs both the config switch and a terminal on the other end.
func colorsEnabled(w io.Writer, cfg *contract.Config) bool {
	if !cfg.UseColors {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
