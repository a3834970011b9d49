package agg

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// ErrNoSources is returned when the record source itself cannot be listed.
var ErrNoSources = errors.New("record source unavailable")

// loadResult is the outcome of reading one named record.
type loadResult struct {
	record schema.GameRecord
	err    error
}

// AggregateSource reads every record of src on a pool of workers and folds
// them in discovery order. Records that fail to load are skipped, counted in
// the report and logged; they never abort the fold.
func AggregateSource(ctx context.Context, src contract.RecordSource, workers int) (*schema.AggregateReport, error) {
	names, err := src.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoSources, src.Describe(), err)
	}

	results, err := loadAll(ctx, src, names, workers)
	if err != nil {
		return nil, err
	}

	report := &schema.AggregateReport{Sources: len(names)}
	acc := NewAccumulator()
	for i, res := range results {
		if res.err != nil {
			report.Skipped++
			contract.LogWarn(fmt.Sprintf("Skipping record %s", names[i]), res.err)
			continue
		}
		if !acc.Add(res.record) {
			report.WithoutMoves++
		}
	}
	report.Stats = acc.Stats()
	report.Totals = acc.Totals()
	return report, nil
}

// loadAll loads names concurrently. Each worker writes to its own slot so the
// fold can run in discovery order without locks.
func loadAll(ctx context.Context, src contract.RecordSource, names []string, workers int) ([]loadResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]loadResult, len(names))
	idxCh := make(chan int, len(names))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for i := range idxCh {
				record, err := src.Load(ctx, names[i])
				results[i] = loadResult{record: record, err: err}
			}
		})
	}

feed:
	for i := range names {
		select {
		case <-ctx.Done():
			break feed
		case idxCh <- i:
		}
	}
	close(idxCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
