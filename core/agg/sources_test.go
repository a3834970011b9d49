package agg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregateSource(t *testing.T) {
	ctx := context.Background()
	src := &contract.MockRecordSource{}

	a := withMoves(schema.PlayerMoveRecord{Port: 1, Character: "Fox", Moves: schema.MoveCount{"shine": 10}})
	b := withMoves(schema.PlayerMoveRecord{Port: 2, Character: "Falco", Moves: schema.MoveCount{"laser": 4}})
	noMoves := schema.GameRecord{PlayerCount: 1, Stage: "Battlefield"}

	src.On("Names", ctx).Return([]string{"a.json", "broken.json", "b.json", "basic.json"}, nil)
	src.On("Load", ctx, "a.json").Return(a, nil)
	src.On("Load", ctx, "broken.json").Return(schema.GameRecord{}, errors.New("unexpected EOF"))
	src.On("Load", ctx, "b.json").Return(b, nil)
	src.On("Load", ctx, "basic.json").Return(noMoves, nil)

	report, err := AggregateSource(ctx, src, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Sources)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.WithoutMoves)
	assert.Equal(t, uint32(2), report.Stats.TotalGames)
	require.Len(t, report.Stats.Players, 2)
	assert.Equal(t, "Fox", report.Stats.Players[0].Character, "fold follows discovery order")
	assert.Equal(t, "Falco", report.Stats.Players[1].Character)
	move, _ := report.Stats.MostCommonMove()
	assert.Equal(t, "shine", move)
	assert.Equal(t, int64(7), report.Stats.AverageMovesPerGame())
	src.AssertExpectations(t)
}

func TestAggregateSourceDeterministicAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	src := &contract.MockRecordSource{}

	var names []string
	for i := range 20 {
		name := fmt.Sprintf("game-%02d.json", i)
		names = append(names, name)
		src.On("Load", ctx, name).Return(withMoves(schema.PlayerMoveRecord{
			Port:      uint8(i%4 + 1),
			Character: "Fox",
			Moves:     schema.MoveCount{"nair": uint32(i), "jab": 1},
		}), nil)
	}
	src.On("Names", ctx).Return(names, nil)

	baseline, err := AggregateSource(ctx, src, 1)
	require.NoError(t, err)
	for _, workers := range []int{0, 2, 8, 32} {
		report, err := AggregateSource(ctx, src, workers)
		require.NoError(t, err)
		assert.Equal(t, baseline.Stats, report.Stats, "workers=%d", workers)
	}
}

func TestAggregateSourceUnavailable(t *testing.T) {
	ctx := context.Background()
	src := &contract.MockRecordSource{}
	src.On("Names", ctx).Return(nil, errors.New("no such directory"))
	src.On("Describe").Return("/missing")

	_, err := AggregateSource(ctx, src, 2)
	assert.ErrorIs(t, err, ErrNoSources)
	assert.Contains(t, err.Error(), "/missing")
}

func TestAggregateSourceEmpty(t *testing.T) {
	ctx := context.Background()
	src := &contract.MockRecordSource{}
	src.On("Names", ctx).Return([]string{}, nil)

	report, err := AggregateSource(ctx, src, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), report.Stats.TotalGames)
	assert.Equal(t, int64(0), report.Stats.AverageMovesPerGame())
}

func TestAggregateSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &contract.MockRecordSource{}
	src.On("Names", ctx).Return([]string{"a.json"}, nil)
	src.On("Load", ctx, mock.Anything).Return(schema.GameRecord{}, nil).Maybe()

	_, err := AggregateSource(ctx, src, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
