package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/iocache"
	"github.com/huangsam/slipstat/internal/slippi"
	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	charFox          = 2
	charFalco        = 20
	stageBattlefield = 31
)

// sampleReplay is a Fox vs Falco game of three frames.
func sampleReplay() []byte {
	return slippi.NewReplayBuilder().
		GameStart(stageBattlefield, false,
			slippi.BuilderPlayer{Index: 0, Character: charFox, Stocks: 4},
			slippi.BuilderPlayer{Index: 1, Character: charFalco, Stocks: 4, Costume: 1},
		).
		Frame(-123, 0, 13, 0, 1).Frame(-123, 1, 25, 0, 0).
		Frame(-122, 0, 13, 0, 1).Frame(-122, 1, 25, 0, 0).
		Frame(-121, 0, 28, 0, 0).Frame(-121, 1, 28, 0, 0).
		GameEnd().
		Bytes()
}

func writeReplay(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.slp")
	require.NoError(t, os.WriteFile(path, sampleReplay(), 0o644))
	return path
}

func quietCtx() context.Context {
	return WithSuppressHeader(context.Background())
}

func noStores() *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRecordStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestGetParseResult(t *testing.T) {
	cfg := &contract.Config{Target: writeReplay(t), ExtractMoves: true, Workers: 2}
	record, err := GetParseResult(quietCtx(), cfg, noStores())
	require.NoError(t, err)

	assert.Equal(t, 2, record.PlayerCount)
	assert.Equal(t, 3, record.DurationFrames)
	assert.Equal(t, "Battlefield", record.Stage)
	require.True(t, record.HasMoves())

	moves := record.MoveRecords()
	require.Len(t, moves, 2)
	assert.Equal(t, schema.MoveCount{"nair": 2, "down_b": 1, "shine": 1}, moves[0].Moves)
	assert.Equal(t, schema.MoveCount{"neutral_b": 2, "laser": 2, "down_b": 1, "shine": 1}, moves[1].Moves)
}

func TestGetParseResultWithoutMoves(t *testing.T) {
	cfg := &contract.Config{Target: writeReplay(t), Workers: 1}
	record, err := GetParseResult(quietCtx(), cfg, nil)
	require.NoError(t, err)
	assert.False(t, record.HasMoves())
	assert.Equal(t, 2, record.PlayerCount)
}

func TestGetParseResultErrors(t *testing.T) {
	_, err := GetParseResult(quietCtx(), &contract.Config{Target: filepath.Join(t.TempDir(), "missing.slp")}, nil)
	assert.ErrorContains(t, err, "failed to read replay")

	bad := filepath.Join(t.TempDir(), "bad.slp")
	require.NoError(t, os.WriteFile(bad, []byte("not a replay"), 0o644))
	_, err = GetParseResult(quietCtx(), &contract.Config{Target: bad}, nil)
	assert.ErrorIs(t, err, slippi.ErrMalformedReplay)
	assert.ErrorContains(t, err, "failed to decode replay")
}

func TestParseReplayDecoderFailure(t *testing.T) {
	decoder := &contract.MockReplayDecoder{}
	decoder.On("Decode", mock.Anything).Return(nil, slippi.ErrMalformedReplay)

	_, err := parseReplay(context.Background(), decoder, []byte{1}, &contract.Config{Target: "x.slp"})
	assert.ErrorIs(t, err, slippi.ErrMalformedReplay)
	decoder.AssertExpectations(t)
}

func TestBuildRecordZeroPlayers(t *testing.T) {
	record, err := BuildRecord(context.Background(), &schema.Game{Start: schema.GameStart{Stage: "Dream Land N64"}}, true, 4)
	require.NoError(t, err)
	require.NotNil(t, record.Moves)
	assert.Empty(t, *record.Moves)
	assert.Equal(t, []schema.PlayerInfo{}, record.Players)

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"moves":[]`)
}

func TestExecuteParseSavesRecord(t *testing.T) {
	saveDir := filepath.Join(t.TempDir(), "records")
	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := &contract.Config{
		Target:       writeReplay(t),
		ExtractMoves: true,
		Workers:      1,
		SaveDir:      saveDir,
		Output:       schema.CSVOut,
		OutputFile:   out,
	}
	require.NoError(t, ExecuteParse(quietCtx(), cfg, noStores()))

	saved, err := os.ReadFile(filepath.Join(saveDir, "match.json"))
	require.NoError(t, err)
	var record schema.GameRecord
	require.NoError(t, json.Unmarshal(saved, &record))
	assert.Equal(t, 3, record.DurationFrames)

	csvData, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "port,character,move,count\n1,Fox,down_b,1\n")
}

func TestPublishRecordFailure(t *testing.T) {
	sink := &failingSink{err: errors.New("connection refused")}
	_, err := publishRecord(context.Background(), sink, "a.json", schema.GameRecord{})
	assert.ErrorContains(t, err, "failed to publish record: connection refused")
}

type failingSink struct{ err error }

func (s *failingSink) Save(context.Context, string, schema.GameRecord) (string, error) {
	return "", s.err
}

func TestGetCatalog(t *testing.T) {
	listing := GetCatalog()
	assert.Len(t, listing.Moves, 20)
	assert.Equal(t, "nair", listing.Moves[0].Name)
	assert.Len(t, listing.Techniques, 4)
}
