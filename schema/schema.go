// Package schema holds the replay, move and statistics models shared across slipstat.
package schema

import (
	"maps"
	"slices"
)

// PlayerInfo describes one participant of a recorded game.
type PlayerInfo struct {
	Port      uint8   `json:"port"`
	Character string  `json:"character"`
	Stocks    uint8   `json:"stocks"`
	Costume   uint8   `json:"costume"`
	Team      *string `json:"team,omitempty"`
}

// FrameSnapshot is the leader state of one port for one frame.
// Airborne is nil when the post-frame data did not carry the flag.
type FrameSnapshot struct {
	Port        uint8  `json:"port"`
	ActionState uint16 `json:"action_state"`
	Buttons     uint32 `json:"buttons"`
	Airborne    *uint8 `json:"airborne,omitempty"`
}

// Frame holds every port snapshot recorded for a single frame index.
type Frame struct {
	Index int             `json:"index"`
	Ports []FrameSnapshot `json:"ports"`
}

// Snapshot returns the snapshot recorded for port, if any.
func (f *Frame) Snapshot(port uint8) (FrameSnapshot, bool) {
	for _, s := range f.Ports {
		if s.Port == port {
			return s, true
		}
	}
	return FrameSnapshot{}, false
}

// GameStart is the descriptor emitted before the first frame of a game.
type GameStart struct {
	StageID uint16       `json:"stage_id"`
	Stage   string       `json:"stage"`
	IsTeams bool         `json:"is_teams"`
	Players []PlayerInfo `json:"players"`
}

// Game is a fully decoded replay.
type Game struct {
	Start  GameStart `json:"start"`
	Frames []Frame   `json:"frames"`
}

// MoveCount maps a move name to the number of times it was observed.
type MoveCount map[string]uint32

// Inc adds one occurrence of name.
func (mc MoveCount) Inc(name string) {
	mc[name]++
}

// Total returns the sum of all counts.
func (mc MoveCount) Total() uint64 {
	var total uint64
	for _, n := range mc {
		total += uint64(n)
	}
	return total
}

// Names returns move names in lexicographic order, the iteration order used
// by every presentation and tie-break.
func (mc MoveCount) Names() []string {
	return slices.Sorted(maps.Keys(mc))
}

// MoveTotals holds cross-game move counts. A single game fits in uint32 but
// sums across many games do not.
type MoveTotals map[string]uint64

// Add folds n occurrences of name.
func (mt MoveTotals) Add(name string, n uint32) {
	mt[name] += uint64(n)
}

// Total returns the sum of all counts.
func (mt MoveTotals) Total() uint64 {
	var total uint64
	for _, n := range mt {
		total += n
	}
	return total
}

// Names returns move names in lexicographic order.
func (mt MoveTotals) Names() []string {
	return slices.Sorted(maps.Keys(mt))
}

// PlayerMoveRecord is the move tally of one player in one game.
type PlayerMoveRecord struct {
	Port      uint8     `json:"port"`
	Character string    `json:"character"`
	Moves     MoveCount `json:"moves"`
}

// GameRecord is the persisted unit exchanged between extraction and aggregation.
// Moves is nil when extraction was not requested, which encodes as null and
// stays distinguishable from an empty list.
type GameRecord struct {
	PlayerCount    int                 `json:"player_count"`
	DurationFrames int                 `json:"duration_frames"`
	Stage          string              `json:"stage"`
	Players        []PlayerInfo        `json:"players"`
	Moves          *[]PlayerMoveRecord `json:"moves"`
}

// HasMoves reports whether move extraction ran for this record.
func (r *GameRecord) HasMoves() bool {
	return r.Moves != nil
}

// MoveRecords returns the extracted records, or nil when absent.
func (r *GameRecord) MoveRecords() []PlayerMoveRecord {
	if r.Moves == nil {
		return nil
	}
	return *r.Moves
}

// Summary keys of AggregatedStats.
const (
	MostCommonMoveKey      = "most_common_move"
	AverageMovesPerGameKey = "average_moves_per_game"
)

// AggregatedStats is the cross-game result of an aggregation.
type AggregatedStats struct {
	TotalGames      uint32                  `json:"total_games"`
	Players         []PlayerMoveRecord      `json:"players"`
	AggregatedStats map[string]SummaryValue `json:"aggregated_stats"`
}

// MostCommonMove returns the most common move, if one was computed.
func (s *AggregatedStats) MostCommonMove() (string, bool) {
	v, ok := s.AggregatedStats[MostCommonMoveKey]
	if !ok {
		return "", false
	}
	return v.Text()
}

// AverageMovesPerGame returns the average moves per game, 0 when absent.
func (s *AggregatedStats) AverageMovesPerGame() int64 {
	v, ok := s.AggregatedStats[AverageMovesPerGameKey]
	if !ok {
		return 0
	}
	n, _ := v.Int()
	return n
}

// MoveCatalogEntry is one row of the action state table.
type MoveCatalogEntry struct {
	Code uint16 `json:"code"`
	Name string `json:"name"`
}

// TechniqueRule describes one compound technique detector.
type TechniqueRule struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CatalogListing is what the moves command renders.
type CatalogListing struct {
	Moves      []MoveCatalogEntry `json:"moves"`
	Techniques []TechniqueRule    `json:"techniques"`
}
