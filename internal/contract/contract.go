// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"
	"time"

	"github.com/huangsam/slipstat/schema"
)

// ReplayDecoder turns a raw replay stream into a decoded game.
// A replay either decodes fully or is rejected as a whole.
type ReplayDecoder interface {
	Decode(r io.Reader) (*schema.Game, error)
}

// RecordSource yields previously persisted GameRecords for aggregation.
type RecordSource interface {
	// Describe returns a human-readable location of the source.
	Describe() string

	// Names lists the records in discovery order.
	Names(ctx context.Context) ([]string, error)

	// Load reads and decodes a single record.
	Load(ctx context.Context, name string) (schema.GameRecord, error)
}

// RecordSink persists a GameRecord under a name and returns where it went.
type RecordSink interface {
	Save(ctx context.Context, name string, record schema.GameRecord) (string, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() CacheStore
	GetHistoryStore() HistoryStore
}

// Record cache keys are a replay content hash followed by one of these.
const (
	MovesKeySuffix = ":moves"
	BasicKeySuffix = ":basic"
)

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking aggregation runs.
type HistoryStore interface {
	// BeginRun creates a new aggregation run and returns its unique ID
	BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalGames, skippedSources int) error

	// RecordMoveTotals stores the cross-game move totals of a run
	RecordMoveTotals(runID int64, totals schema.MoveTotals) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.AggregationRunRecord, error)

	// GetAllMoveTotals returns every recorded move total ordered by run and move
	GetAllMoveTotals() ([]schema.MoveTotalRecord, error)

	// Close closes the underlying connection
	Close() error
}
