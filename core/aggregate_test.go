package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/slipstat/core/agg"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/iocache"
	"github.com/huangsam/slipstat/internal/records"
	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func moveRecord(port uint8, character string, moves schema.MoveCount) schema.GameRecord {
	players := []schema.PlayerMoveRecord{{Port: port, Character: character, Moves: moves}}
	return schema.GameRecord{
		PlayerCount: 1,
		Stage:       "Battlefield",
		Players:     []schema.PlayerInfo{{Port: port, Character: character, Stocks: 4}},
		Moves:       &players,
	}
}

var errUnreadable = errors.New("unreadable")

func mockSource(byName map[string]schema.GameRecord, order []string) *contract.MockRecordSource {
	src := &contract.MockRecordSource{}
	src.On("Describe").Return("mock")
	src.On("Names", mock.Anything).Return(order, nil)
	for _, name := range order {
		if r, ok := byName[name]; ok {
			src.On("Load", mock.Anything, name).Return(r, nil)
		} else {
			src.On("Load", mock.Anything, name).Return(schema.GameRecord{}, errUnreadable)
		}
	}
	return src
}

func TestAggregateWithHistory(t *testing.T) {
	src := mockSource(map[string]schema.GameRecord{
		"a.json": moveRecord(1, "Fox", schema.MoveCount{"nair": 10, "fair": 5}),
		"b.json": moveRecord(2, "Falco", schema.MoveCount{"laser": 20}),
	}, []string{"a.json", "bad.json", "b.json"})

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, "mock", mock.Anything).Return(int64(7), nil)
	history.On("EndRun", int64(7), mock.Anything, 2, 1).Return(nil)
	history.On("RecordMoveTotals", int64(7), schema.MoveTotals{"nair": 10, "fair": 5, "laser": 20}).Return(nil)

	cfg := &contract.Config{Source: schema.DirSource, Pattern: "*.json", Workers: 2}
	report, err := aggregateWithHistory(context.Background(), cfg, src, history)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), report.Stats.TotalGames)
	assert.Equal(t, 1, report.Skipped)
	name, ok := report.Stats.MostCommonMove()
	require.True(t, ok)
	assert.Equal(t, "laser", name)
	assert.Equal(t, int64(17), report.Stats.AverageMovesPerGame())
	history.AssertExpectations(t)
}

func TestAggregateWithHistoryBeginFailure(t *testing.T) {
	src := mockSource(map[string]schema.GameRecord{"a.json": moveRecord(1, "Fox", schema.MoveCount{"jab": 1})}, []string{"a.json"})
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	report, err := aggregateWithHistory(context.Background(), &contract.Config{Workers: 1}, src, history)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), report.Stats.TotalGames)
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAggregateResultDirectory(t *testing.T) {
	dir := t.TempDir()
	sink := records.NewDirSink(dir)
	_, err := sink.Save(context.Background(), "one.json", moveRecord(1, "Marth", schema.MoveCount{"fsmash": 3}))
	require.NoError(t, err)
	_, err = sink.Save(context.Background(), "two.json", schema.GameRecord{Players: []schema.PlayerInfo{}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	cfg := &contract.Config{Target: dir, Source: schema.DirSource, Pattern: "*.json", Workers: 4}
	report, err := GetAggregateResult(quietCtx(), cfg, noStores())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sources)
	assert.Equal(t, 1, report.WithoutMoves)
	assert.Equal(t, uint32(1), report.Stats.TotalGames)
}

func TestGetAggregateResultMissingDirectory(t *testing.T) {
	cfg := &contract.Config{Target: filepath.Join(t.TempDir(), "nope"), Source: schema.DirSource, Pattern: "*.json", Workers: 1}
	_, err := GetAggregateResult(quietCtx(), cfg, nil)
	assert.ErrorIs(t, err, agg.ErrNoSources)
}

func TestOpenRecordSourceUnsupported(t *testing.T) {
	_, _, err := openRecordSource(context.Background(), &contract.Config{Source: schema.RecordSourceKind("s3")})
	assert.ErrorContains(t, err, "unsupported record source")
}

func TestExecuteAggregateJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := records.NewDirSink(dir).Save(context.Background(), "g.json", moveRecord(1, "Fox", schema.MoveCount{"shine": 4}))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "stats.json")
	cfg := &contract.Config{Target: dir, Source: schema.DirSource, Pattern: "*.json", Workers: 1, Output: schema.JSONOut, OutputFile: out}
	require.NoError(t, ExecuteAggregate(quietCtx(), cfg, noStores()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_games": 1,
		"players": [{"port": 1, "character": "Fox", "moves": {"shine": 4}}],
		"aggregated_stats": {"most_common_move": "shine", "average_moves_per_game": 4}
	}`, string(data))
}
