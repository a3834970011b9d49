package moves

import (
	"context"
	"sync"

	"github.com/huangsam/slipstat/schema"
)

// newRecords creates one empty record per player, in player order.
func newRecords(players []schema.PlayerInfo) []schema.PlayerMoveRecord {
	records := make([]schema.PlayerMoveRecord, len(players))
	for i, p := range players {
		records[i] = schema.PlayerMoveRecord{
			Port:      p.Port,
			Character: p.Character,
			Moves:     schema.MoveCount{},
		}
	}
	return records
}

// Extract walks frames once and returns one move record per player.
// Snapshots for ports that are not in players are ignored, and players
// missing from a frame are skipped for that frame.
func Extract(frames []schema.Frame, players []schema.PlayerInfo) []schema.PlayerMoveRecord {
	records := newRecords(players)
	byPort := make(map[uint8]int, len(records))
	for i, r := range records {
		byPort[r.Port] = i
	}

	for fi := range frames {
		for _, snap := range frames[fi].Ports {
			if i, ok := byPort[snap.Port]; ok {
				Classify(snap, &records[i])
			}
		}
	}
	return records
}

// ExtractConcurrent produces the same records as Extract with one goroutine
// per player, using at most workers goroutines at a time. A single worker
// runs the single pass of Extract.
func ExtractConcurrent(ctx context.Context, frames []schema.Frame, players []schema.PlayerInfo, workers int) ([]schema.PlayerMoveRecord, error) {
	if workers <= 1 || len(players) <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Extract(frames, players), nil
	}

	records := newRecords(players)

	idxCh := make(chan int, len(records))
	var wg sync.WaitGroup
	for range min(workers, len(records)) {
		wg.Go(func() {
			for i := range idxCh {
				extractPort(ctx, frames, &records[i])
			}
		})
	}
	for i := range records {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// extractPort classifies every frame of a single port into record.
func extractPort(ctx context.Context, frames []schema.Frame, record *schema.PlayerMoveRecord) {
	for fi := range frames {
		if fi%1024 == 0 && ctx.Err() != nil {
			return
		}
		if snap, ok := frames[fi].Snapshot(record.Port); ok {
			Classify(snap, record)
		}
	}
}
