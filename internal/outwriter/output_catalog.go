package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintCatalog displays the action state table and the technique rules.
// This is a static display that does not require any replay.
func PrintCatalog(listing schema.CatalogListing, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, listing)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCatalog(w, listing)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printCatalogText(w, listing, colorsEnabled(w, cfg))
		}, "Wrote text")
	default:
		return fmt.Errorf("%w '%s' for the move catalog", schema.ErrUnsupportedFormat, cfg.Output)
	}
}

// writeCSVCatalog writes moves and techniques as one table.
func writeCSVCatalog(w io.Writer, listing schema.CatalogListing) error {
	return writeCSVWithHeader(w, []string{"kind", "code", "name", "description"}, func(cw *csv.Writer) error {
		for _, m := range listing.Moves {
			if err := cw.Write([]string{"move", strconv.Itoa(int(m.Code)), m.Name, ""}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		for _, t := range listing.Techniques {
			if err := cw.Write([]string{"technique", "", t.Name, t.Description}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// printCatalogText renders two tables, moves by action state then techniques.
func printCatalogText(w io.Writer, listing schema.CatalogListing, useColors bool) error {
	if _, err := fmt.Fprintln(w, contract.Paint(contract.HeadingColor, "Move Catalog", useColors)); err != nil {
		return err
	}
	moves := tablewriter.NewWriter(w)
	moves.Header([]string{"Action State", "Move"})
	moves.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft}
	})
	rows := make([][]string, 0, len(listing.Moves))
	for _, m := range listing.Moves {
		rows = append(rows, []string{strconv.Itoa(int(m.Code)), m.Name})
	}
	if err := moves.Bulk(rows); err != nil {
		return err
	}
	if err := moves.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\n"+contract.Paint(contract.HeadingColor, "Techniques", useColors)); err != nil {
		return err
	}
	techniques := tablewriter.NewWriter(w)
	techniques.Header([]string{"Technique", "Rule"})
	rows = rows[:0]
	for _, t := range listing.Techniques {
		rows = append(rows, []string{t.Name, t.Description})
	}
	if err := techniques.Bulk(rows); err != nil {
		return err
	}
	return techniques.Render()
}
