package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*HistoryStoreImpl)
	require.True(t, ok)
	return impl
}

func TestHistoryStoreRunLifecycle(t *testing.T) {
	store := newTestHistoryStore(t)
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(start, "replays", map[string]any{"workers": 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	require.NoError(t, store.EndRun(runID, start.Add(250*time.Millisecond), 12, 2))
	require.NoError(t, store.RecordMoveTotals(runID, schema.MoveTotals{"nair": 10, "laser": 20}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, start.Add(250*time.Millisecond).Equal(*run.EndTime))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(250), *run.RunDurationMs)
	assert.Equal(t, int32(12), run.TotalGames)
	assert.Equal(t, int32(2), run.SkippedSources)
	assert.Equal(t, "replays", run.Source)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"workers":4}`, *run.ConfigParams)

	totals, err := store.GetAllMoveTotals()
	require.NoError(t, err)
	assert.Equal(t, []schema.MoveTotalRecord{
		{RunID: runID, MoveName: "laser", TotalCount: 20},
		{RunID: runID, MoveName: "nair", TotalCount: 10},
	}, totals)
}

func TestHistoryStoreStatus(t *testing.T) {
	store := newTestHistoryStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[aggregationRunsTable])

	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, games := range []int{3, 5} {
		start := first.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginRun(start, "replays", nil)
		require.NoError(t, err)
		require.NoError(t, store.EndRun(runID, start.Add(time.Second), games, 0))
		require.NoError(t, store.RecordMoveTotals(runID, schema.MoveTotals{"jab": 1}))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, int64(2), status.LastRunID)
	assert.True(t, first.Add(time.Hour).Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, int64(8), status.TotalGamesFolded)
	assert.Equal(t, int64(2), status.TableSizes[moveTotalsTable])
}

func TestHistoryStoreEmptyTotals(t *testing.T) {
	store := newTestHistoryStore(t)
	runID, err := store.BeginRun(time.Now(), "replays", nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordMoveTotals(runID, schema.MoveTotals{}))
	totals, err := store.GetAllMoveTotals()
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestHistoryStoreEndUnknownRun(t *testing.T) {
	store := newTestHistoryStore(t)
	err := store.EndRun(99, time.Now(), 0, 0)
	assert.ErrorContains(t, err, "failed to get start_time for run 99")
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "replays", nil)
	require.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.EndRun(runID, time.Now(), 1, 0))
	assert.NoError(t, store.RecordMoveTotals(runID, schema.MoveTotals{"jab": 1}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}
