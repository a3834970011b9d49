package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// CacheStoreImpl keeps encoded GameRecords keyed by replay content.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore opens the record cache table on backend, creating it if needed.
// NoneBackend yields a store that never hits.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(createRecordTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{db: db, tableName: tableName, backend: backend, connStr: connStr}, nil
}

// createRecordTableQuery returns the dialect's DDL for the record cache.
// record_json holds the GameRecord exactly as the dir sink writes it.
func createRecordTableQuery(tableName string, backend schema.DatabaseBackend) string {
	table := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				replay_key VARCHAR(80) PRIMARY KEY,
				record_json LONGBLOB NOT NULL,
				record_version INT NOT NULL,
				cached_at BIGINT NOT NULL
			);
		`, table)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				replay_key TEXT PRIMARY KEY,
				record_json BYTEA NOT NULL,
				record_version INTEGER NOT NULL,
				cached_at BIGINT NOT NULL
			);
		`, table)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				replay_key TEXT PRIMARY KEY,
				record_json BLOB NOT NULL,
				record_version INTEGER NOT NULL,
				cached_at INTEGER NOT NULL
			);
		`, table)
	}
}

func (ps *CacheStoreImpl) disabled() bool {
	return ps.backend == schema.NoneBackend || ps.db == nil
}

// Get returns the encoded record, its cache version and when it was cached.
// A missing key is sql.ErrNoRows.
func (ps *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ps.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	var data []byte
	var version int
	var cachedAt int64
	query := rebind(fmt.Sprintf(`SELECT record_json, record_version, cached_at FROM %s WHERE replay_key = ?`,
		quoteTableName(ps.tableName, ps.backend)), ps.backend)
	if err := ps.db.QueryRow(query, key).Scan(&data, &version, &cachedAt); err != nil {
		return nil, 0, 0, err
	}
	return data, version, cachedAt, nil
}

// Set stores or replaces the record under key.
func (ps *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ps.disabled() {
		return nil
	}
	_, err := ps.db.Exec(ps.upsertQuery(), key, value, version, timestamp)
	return err
}

func (ps *CacheStoreImpl) upsertQuery() string {
	table := quoteTableName(ps.tableName, ps.backend)
	const cols = "(replay_key, record_json, record_version, cached_at)"
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s %s VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE record_json = new.record_json, record_version = new.record_version, cached_at = new.cached_at`, table, cols)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s %s VALUES ($1, $2, $3, $4)
			ON CONFLICT (replay_key) DO UPDATE SET record_json = EXCLUDED.record_json, record_version = EXCLUDED.record_version, cached_at = EXCLUDED.cached_at`, table, cols)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s %s VALUES (?, ?, ?, ?)`, table, cols)
	}
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus counts cached records, split by whether they carry moves,
// along with their age range and the table size.
func (ps *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}
	if ps.disabled() {
		return status, nil
	}

	var newest, oldest int64
	query := rebind(fmt.Sprintf(`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN replay_key LIKE ? THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(cached_at), 0), COALESCE(MIN(cached_at), 0)
		FROM %s`, quoteTableName(ps.tableName, ps.backend)), ps.backend)
	err := ps.db.QueryRow(query, "%"+contract.MovesKeySuffix).
		Scan(&status.TotalEntries, &status.MovesEntries, &newest, &oldest)
	if err != nil {
		return status, fmt.Errorf("failed to count cached records: %w", err)
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(newest, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}

	status.TableSizeBytes = ps.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the backend for the table's on-disk size, falling back
// to a per-record estimate.
func (ps *CacheStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 2048
	var size int64

	switch ps.backend {
	case schema.SQLiteBackend:
		if err := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		query := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ps.db.QueryRow(query, cfg.DBName, ps.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	}
	return estimate
}
