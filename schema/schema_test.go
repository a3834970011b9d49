package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveCount(t *testing.T) {
	mc := MoveCount{}
	mc.Inc("nair")
	mc.Inc("nair")
	mc.Inc("fair")
	mc.Inc("jab")

	assert.Equal(t, uint32(2), mc["nair"])
	assert.Equal(t, uint64(4), mc.Total())
	assert.Equal(t, []string{"fair", "jab", "nair"}, mc.Names())
	assert.Empty(t, MoveCount{}.Names())
	assert.Equal(t, uint64(0), MoveCount{}.Total())
}

func TestMoveTotalsWiderThanGameCounts(t *testing.T) {
	mt := MoveTotals{}
	mt.Add("jab", math.MaxUint32)
	mt.Add("jab", math.MaxUint32)
	mt.Add("nair", 10)

	assert.Equal(t, uint64(2*math.MaxUint32), mt["jab"])
	assert.Equal(t, uint64(2*math.MaxUint32+10), mt.Total())
	assert.Equal(t, []string{"jab", "nair"}, mt.Names())
}

func TestFrameSnapshot(t *testing.T) {
	f := Frame{Index: 3, Ports: []FrameSnapshot{{Port: 1, ActionState: 13}, {Port: 4, ActionState: 25}}}

	s, ok := f.Snapshot(4)
	require.True(t, ok)
	assert.Equal(t, uint16(25), s.ActionState)

	_, ok = f.Snapshot(2)
	assert.False(t, ok)
}

func TestGameRecordJSON(t *testing.T) {
	team := "Red"
	tests := []struct {
		name      string
		record    GameRecord
		wantMoves string
		hasMoves  bool
	}{
		{
			name: "moves absent",
			record: GameRecord{
				PlayerCount:    1,
				DurationFrames: 100,
				Stage:          "Battlefield",
				Players:        []PlayerInfo{{Port: 1, Character: "Fox", Stocks: 4}},
			},
			wantMoves: `"moves":null`,
			hasMoves:  false,
		},
		{
			name: "moves empty",
			record: GameRecord{
				PlayerCount: 0,
				Stage:       "Battlefield",
				Players:     []PlayerInfo{},
				Moves:       &[]PlayerMoveRecord{},
			},
			wantMoves: `"moves":[]`,
			hasMoves:  true,
		},
		{
			name: "moves present",
			record: GameRecord{
				PlayerCount: 1,
				Stage:       "FinalDestination",
				Players:     []PlayerInfo{{Port: 2, Character: "Falco", Team: &team}},
				Moves: &[]PlayerMoveRecord{
					{Port: 2, Character: "Falco", Moves: MoveCount{"laser": 3}},
				},
			},
			wantMoves: `"moves":[{"port":2,"character":"Falco","moves":{"laser":3}}]`,
			hasMoves:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.record)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.wantMoves)

			var decoded GameRecord
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.hasMoves, decoded.HasMoves())
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestGameRecordMissingMovesField(t *testing.T) {
	var r GameRecord
	require.NoError(t, json.Unmarshal([]byte(`{"player_count":2,"duration_frames":10,"stage":"Battlefield","players":[]}`), &r))
	assert.False(t, r.HasMoves())
	assert.Nil(t, r.MoveRecords())
}

func TestAggregatedStatsAccessors(t *testing.T) {
	stats := AggregatedStats{
		TotalGames: 1,
		AggregatedStats: map[string]SummaryValue{
			MostCommonMoveKey:      StringValue("laser"),
			AverageMovesPerGameKey: IntValue(35),
		},
	}
	move, ok := stats.MostCommonMove()
	require.True(t, ok)
	assert.Equal(t, "laser", move)
	assert.Equal(t, int64(35), stats.AverageMovesPerGame())

	empty := AggregatedStats{AggregatedStats: map[string]SummaryValue{AverageMovesPerGameKey: IntValue(0)}}
	_, ok = empty.MostCommonMove()
	assert.False(t, ok)
}

func TestAggregatedStatsJSONShape(t *testing.T) {
	stats := AggregatedStats{
		TotalGames: 2,
		Players:    []PlayerMoveRecord{{Port: 1, Character: "Fox", Moves: MoveCount{"shine": 4}}},
		AggregatedStats: map[string]SummaryValue{
			MostCommonMoveKey:      StringValue("shine"),
			AverageMovesPerGameKey: IntValue(2),
		},
	}
	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_games": 2,
		"players": [{"port": 1, "character": "Fox", "moves": {"shine": 4}}],
		"aggregated_stats": {"most_common_move": "shine", "average_moves_per_game": 2}
	}`, string(data))

	var decoded AggregatedStats
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, stats, decoded)
}
