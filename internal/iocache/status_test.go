package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	err := PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    3,
		MovesEntries:    2,
		LastEntryTime:   time.Date(2026, 2, 1, 8, 0, 0, 0, time.Local),
		OldestEntryTime: time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local),
		TableSizeBytes:  4096,
	}, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "2026-02-01 08:00:00")
	assert.Contains(t, out, "4096 bytes")
	assert.Contains(t, out, "With Moves")
	assert.Contains(t, out, "Metadata Only")
}

func TestPrintCacheStatusDisconnected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"}, false))
	assert.Contains(t, buf.String(), "disconnected")
	assert.NotContains(t, buf.String(), "Total Entries")
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	err := PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend:          "postgresql",
		Connected:        true,
		TotalRuns:        2,
		LastRunID:        7,
		TotalGamesFolded: 40,
		TableSizes:       map[string]int64{moveTotalsTable: 30, aggregationRunsTable: 2},
	}, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Total Games Folded")
	assert.Contains(t, out, "40")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(aggregationRunsTable)), bytes.Index(buf.Bytes(), []byte(moveTotalsTable)))
}

func TestExecuteHistoryExport(t *testing.T) {
	store := &MockHistoryStore{}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", TotalRuns: 1}, nil)
	store.On("GetAllRuns").Return([]schema.AggregationRunRecord{{RunID: 1, StartTime: start, Source: "replays"}}, nil)
	store.On("GetAllMoveTotals").Return([]schema.MoveTotalRecord{{RunID: 1, MoveName: "nair", TotalCount: 4}}, nil)

	out := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer
	require.NoError(t, ExecuteHistoryExport(&buf, store, out))

	for _, suffix := range []string{".aggregation_runs.parquet", ".move_totals.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, buf.String(), "Exported 1 aggregation runs")
	store.AssertExpectations(t)
}

func TestExecuteHistoryExportErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, ExecuteHistoryExport(&buf, &MockHistoryStore{}, ""), "--output-file")
	assert.ErrorContains(t, ExecuteHistoryExport(&buf, nil, "out"), "--history-backend")

	empty := &MockHistoryStore{}
	empty.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite"}, nil)
	assert.ErrorIs(t, ExecuteHistoryExport(&buf, empty, "out"), ErrNoHistory)

	broken := &MockHistoryStore{}
	broken.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
	assert.ErrorContains(t, ExecuteHistoryExport(&buf, broken, "out"), "boom")
}
