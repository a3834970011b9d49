package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// Table names for aggregation history.
const (
	aggregationRunsTable = "slipstat_aggregation_runs"
	moveTotalsTable      = "slipstat_move_totals"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the aggregation history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{aggregationRunsTable, getCreateRunsQuery(backend)},
		{moveTotalsTable, getCreateMoveTotalsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for slipstat_aggregation_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(aggregationRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_games INT NOT NULL DEFAULT 0,
				skipped_sources INT NOT NULL DEFAULT 0,
				source VARCHAR(512) NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_games INT NOT NULL DEFAULT 0,
				skipped_sources INT NOT NULL DEFAULT 0,
				source TEXT NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_games INTEGER NOT NULL DEFAULT 0,
				skipped_sources INTEGER NOT NULL DEFAULT 0,
				source TEXT NOT NULL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateMoveTotalsQuery returns the CREATE TABLE query for slipstat_move_totals.
func getCreateMoveTotalsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(moveTotalsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				move_name VARCHAR(64) NOT NULL,
				total_count BIGINT NOT NULL,
				PRIMARY KEY (run_id, move_name)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				move_name TEXT NOT NULL,
				total_count BIGINT NOT NULL,
				PRIMARY KEY (run_id, move_name)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				move_name TEXT NOT NULL,
				total_count INTEGER NOT NULL,
				PRIMARY KEY (run_id, move_name)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new aggregation run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(aggregationRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, source, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), source, string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert aggregation run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert aggregation run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalGames, skippedSources int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(aggregationRunsTable, hs.backend)
	row := hs.db.QueryRow(rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName), hs.backend), runID)
	startTime, err := hs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := rebind(fmt.Sprintf(
		`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_games = ?, skipped_sources = ? WHERE run_id = ?`,
		quotedTableName), hs.backend)
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalGames, skippedSources, runID); err != nil {
		return fmt.Errorf("failed to update aggregation run: %w", err)
	}
	return nil
}

// RecordMoveTotals stores the cross-game totals of a run in one transaction.
func (hs *HistoryStoreImpl) RecordMoveTotals(runID int64, totals schema.MoveTotals) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(totals) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := rebind(fmt.Sprintf(`INSERT INTO %s (run_id, move_name, total_count) VALUES (?, ?, ?)`,
		quoteTableName(moveTotalsTable, hs.backend)), hs.backend)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare move totals insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, name := range totals.Names() {
		if _, err := stmt.Exec(runID, name, int64(totals[name])); err != nil {
			return fmt.Errorf("failed to insert move total %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(aggregationRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRow := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := lastRow.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		var err error
		status.LastRunTime, err = hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.OldestRunTime, err = hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		gamesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_games), 0) FROM %s", runsTable)
		if err := hs.db.QueryRow(gamesQuery).Scan(&status.TotalGamesFolded); err != nil {
			return status, fmt.Errorf("failed to get total games folded: %w", err)
		}
	}

	for _, table := range []string{aggregationRunsTable, moveTotalsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all aggregation runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.AggregationRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, total_games, skipped_sources, source, config_params
		FROM %s ORDER BY run_id`, quoteTableName(aggregationRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AggregationRunRecord
	for rows.Next() {
		var record schema.AggregationRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.TotalGames, &record.SkippedSources, &record.Source, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan aggregation run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.TotalGames, &record.SkippedSources, &record.Source, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan aggregation run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregation runs: %w", err)
	}
	return results, nil
}

// GetAllMoveTotals retrieves all recorded move totals from the store.
func (hs *HistoryStoreImpl) GetAllMoveTotals() ([]schema.MoveTotalRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, move_name, total_count FROM %s ORDER BY run_id, move_name`,
		quoteTableName(moveTotalsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query move totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MoveTotalRecord
	for rows.Next() {
		var record schema.MoveTotalRecord
		if err := rows.Scan(&record.RunID, &record.MoveName, &record.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan move total: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating move totals: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column, which SQLite stores as text.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}
