package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// PrintGameRecord renders a single game's record in the configured output format.
func PrintGameRecord(record schema.GameRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, record)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMoves(w, record.MoveRecords())
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquetMoves(w, record.MoveRecords())
		}, "Wrote Parquet")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printGameText(w, record, colorsEnabled(w, cfg))
		}, "Wrote text")
	default:
		return fmt.Errorf("%w '%s'", schema.ErrUnsupportedFormat, cfg.Output)
	}
}

// printGameText writes the narrative form of a single game.
func printGameText(w io.Writer, record schema.GameRecord, useColors bool) error {
	var b strings.Builder
	b.WriteString(contract.Paint(contract.HeadingColor, "Game Data", useColors) + "\n")
	b.WriteString("=========\n")
	fmt.Fprintf(&b, "Players: %d\n", record.PlayerCount)
	fmt.Fprintf(&b, "Duration: %d frames\n", record.DurationFrames)
	fmt.Fprintf(&b, "Stage: %s\n", record.Stage)
	for _, p := range record.Players {
		fmt.Fprintf(&b, "  Port %d: %s (%d stocks, costume %d)", p.Port, p.Character, p.Stocks, p.Costume)
		if p.Team != nil {
			fmt.Fprintf(&b, " team %s", *p.Team)
		}
		b.WriteString("\n")
	}

	if !record.HasMoves() {
		b.WriteString("Move data not extracted\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	players := record.MoveRecords()
	fmt.Fprintf(&b, "Move data extracted for %d players\n", len(players))
	writePlayerBreakdown(&b, players, useColors)
	_, err := io.WriteString(w, b.String())
	return err
}

// writePlayerBreakdown appends each player's total and top moves.
func writePlayerBreakdown(b *strings.Builder, players []schema.PlayerMoveRecord, useColors bool) {
	b.WriteString("\n" + contract.Paint(contract.HeadingColor, "Player breakdown:", useColors) + "\n")
	for _, p := range players {
		fmt.Fprintf(b, "Port %d: %s - %d total moves\n", p.Port, p.Character, p.Moves.Total())
		for i, m := range topMoves(p.Moves, narrativeTopMoves) {
			fmt.Fprintf(b, "  %d. %s: %d\n", i+1, contract.Paint(contract.MoveColor, m.Name, useColors), m.Count)
		}
		b.WriteString("\n")
	}
}
