package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/olekukonko/tablewriter"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints record cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus, useColors bool) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Status", contract.StatusLabel(status.Connected, useColors)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Entries", fmt.Sprint(status.TotalEntries)})
		if status.TotalEntries > 0 {
			rows = append(rows,
				[]string{"With Moves", fmt.Sprint(status.MovesEntries)},
				[]string{"Metadata Only", fmt.Sprint(status.TotalEntries - status.MovesEntries)},
				[]string{"Last Entry", status.LastEntryTime.Format(statusTimeFormat)},
				[]string{"Oldest Entry", status.OldestEntryTime.Format(statusTimeFormat)},
			)
		}
		rows = append(rows, []string{"Table Size", fmt.Sprintf("%d bytes", status.TableSizeBytes)})
	}
	return renderStatus(w, "Record Cache", rows)
}

// PrintHistoryStatus prints aggregation history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus, useColors bool) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Status", contract.StatusLabel(status.Connected, useColors)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Runs", fmt.Sprint(status.TotalRuns)})
		if status.TotalRuns > 0 {
			rows = append(rows,
				[]string{"Last Run ID", fmt.Sprint(status.LastRunID)},
				[]string{"Last Run", status.LastRunTime.Format(statusTimeFormat)},
				[]string{"Oldest Run", status.OldestRunTime.Format(statusTimeFormat)},
				[]string{"Total Games Folded", fmt.Sprint(status.TotalGamesFolded)},
			)
		}
		for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
			rows = append(rows, []string{table, fmt.Sprintf("%d rows", status.TableSizes[table])})
		}
	}
	return renderStatus(w, "Aggregation History", rows)
}

func renderStatus(w io.Writer, title string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
