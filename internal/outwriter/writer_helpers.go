package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/parquet"
	"github.com/huangsam/slipstat/schema"
)

// moveCSVHeader is the fixed header of every tabular move listing.
var moveCSVHeader = []string{"port", "character", "move", "count"}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeCSVMoves writes one row per (port, character, move, count) in player order,
// moves in name order.
func writeCSVMoves(w io.Writer, players []schema.PlayerMoveRecord) error {
	return writeCSVWithHeader(w, moveCSVHeader, func(cw *csv.Writer) error {
		for _, p := range players {
			port := strconv.Itoa(int(p.Port))
			for _, name := range p.Moves.Names() {
				record := []string{port, p.Character, name, strconv.FormatUint(uint64(p.Moves[name]), 10)}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// writeParquetMoves writes the same rows as writeCSVMoves as a Parquet file.
func writeParquetMoves(w io.Writer, players []schema.PlayerMoveRecord) error {
	return parquet.WriteRows(w, parquet.MoveCountRows(players))
}
