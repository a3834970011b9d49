// Package agg folds GameRecords into cross-game move statistics.
package agg

import (
	"maps"

	"github.com/huangsam/slipstat/schema"
)

// Accumulator is a combinable partial aggregate. Counts and totalGames are
// associative and commutative under Merge; the player list concatenates in
// merge order.
type Accumulator struct {
	totalGames uint32
	players    []schema.PlayerMoveRecord
	totals     schema.MoveTotals
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: schema.MoveTotals{}}
}

// Add folds record into the accumulator. Records without move data are
// skipped and reported with false.
func (a *Accumulator) Add(record schema.GameRecord) bool {
	if !record.HasMoves() {
		return false
	}
	a.totalGames++
	for _, pr := range record.MoveRecords() {
		a.players = append(a.players, schema.PlayerMoveRecord{
			Port:      pr.Port,
			Character: pr.Character,
			Moves:     cloneMoves(pr.Moves),
		})
		for name, n := range pr.Moves {
			a.totals.Add(name, n)
		}
	}
	return true
}

// Merge folds other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	a.totalGames += other.totalGames
	for _, pr := range other.players {
		a.players = append(a.players, schema.PlayerMoveRecord{
			Port:      pr.Port,
			Character: pr.Character,
			Moves:     cloneMoves(pr.Moves),
		})
	}
	for name, n := range other.totals {
		a.totals[name] += n
	}
}

// TotalGames returns the number of records folded so far.
func (a *Accumulator) TotalGames() uint32 {
	return a.totalGames
}

// Totals returns a copy of the cross-game move counts.
func (a *Accumulator) Totals() schema.MoveTotals {
	return maps.Clone(a.totals)
}

// Stats computes the final statistics.
func (a *Accumulator) Stats() schema.AggregatedStats {
	summary := map[string]schema.SummaryValue{
		schema.AverageMovesPerGameKey: schema.IntValue(AverageMovesPerGame(a.totals.Total(), a.totalGames)),
	}
	if name, ok := MostCommonMove(a.totals); ok {
		summary[schema.MostCommonMoveKey] = schema.StringValue(name)
	}

	players := a.players
	if players == nil {
		players = []schema.PlayerMoveRecord{}
	}
	return schema.AggregatedStats{
		TotalGames:      a.totalGames,
		Players:         players,
		AggregatedStats: summary,
	}
}

// Aggregate folds records in order and returns the statistics.
func Aggregate(records []schema.GameRecord) schema.AggregatedStats {
	acc := NewAccumulator()
	for _, r := range records {
		acc.Add(r)
	}
	return acc.Stats()
}

// MostCommonMove returns the name with the highest count. Names are visited
// in lexicographic order and the first strict maximum wins.
func MostCommonMove(totals schema.MoveTotals) (string, bool) {
	var best string
	var bestCount uint64
	found := false
	for _, name := range totals.Names() {
		if n := totals[name]; !found || n > bestCount {
			best, bestCount, found = name, n, true
		}
	}
	return best, found
}

// AverageMovesPerGame is total integer-divided by games, or 0 without games.
func AverageMovesPerGame(total uint64, games uint32) int64 {
	if games == 0 {
		return 0
	}
	return int64(total / uint64(games))
}

func cloneMoves(mc schema.MoveCount) schema.MoveCount {
	if mc == nil {
		return schema.MoveCount{}
	}
	return maps.Clone(mc)
}
