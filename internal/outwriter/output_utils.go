package outwriter

import (
	"slices"

	"github.com/huangsam/slipstat/schema"
)

// narrativeTopMoves is how many moves the narrative breakdown lists per player.
const narrativeTopMoves = 5

// rankedMove is one line of a player breakdown.
type rankedMove struct {
	Name  string
	Count uint32
}

// topMoves returns up to n moves by descending count. Equal counts keep the
// name order of MoveCount.Names.
func topMoves(mc schema.MoveCount, n int) []rankedMove {
	ranked := make([]rankedMove, 0, len(mc))
	for _, name := range mc.Names() {
		ranked = append(ranked, rankedMove{Name: name, Count: mc[name]})
	}
	slices.SortStableFunc(ranked, func(a, b rankedMove) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		}
		return 0
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
