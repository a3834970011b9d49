package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// RecordSourceKind represents where aggregation reads GameRecords from.
	RecordSourceKind string
)

// All output modes supported.
const (
	JSONOut    OutputMode = "json" // structured
	CSVOut     OutputMode = "csv"  // tabular
	TextOut    OutputMode = "text" // narrative, default
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All record sources supported.
const (
	DirSource   RecordSourceKind = "dir" // default
	RedisSource RecordSourceKind = "redis"
)

// ErrUnsupportedFormat is returned for output selectors that are not recognized.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	JSONOut:    {},
	CSVOut:     {},
	TextOut:    {},
	ParquetOut: {},
}

// outputAliases maps presentation names onto the canonical output modes.
var outputAliases = map[string]OutputMode{
	"structured": JSONOut,
	"tabular":    CSVOut,
	"narrative":  TextOut,
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidRecordSources lists all valid aggregation sources.
var ValidRecordSources = map[RecordSourceKind]struct{}{
	DirSource:   {},
	RedisSource: {},
}

// ParseOutputMode resolves a format selector, including its aliases, into an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if mode, ok := outputAliases[normalized]; ok {
		return mode, nil
	}
	mode := OutputMode(normalized)
	if _, ok := ValidOutputModes[mode]; !ok {
		return "", fmt.Errorf("%w '%s'. must be json, csv, text, parquet (or structured, tabular, narrative)", ErrUnsupportedFormat, s)
	}
	return mode, nil
}
