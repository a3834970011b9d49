package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/slipstat/internal/contract"
)

// logParseHeader prints a one-line header for a parse. Headers go to stderr
// so structured output on stdout stays machine readable.
func logParseHeader(cfg *contract.Config) {
	mode := "basic"
	if cfg.ExtractMoves {
		mode = "moves"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🎮 Replay: %s (Mode: %s)\n", filepath.Base(cfg.Target), mode)
}

// logAggregateHeader prints a one-line header for an aggregation.
func logAggregateHeader(source string, workers int) {
	_, _ = fmt.Fprintf(os.Stderr, "📂 Source: %s (Workers: %d)\n", source, workers)
}
