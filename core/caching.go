package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// RecordCacheVersion defines the version of cached GameRecords. Bump it when
// the catalog or the technique rules change so stale counts are recomputed.
const RecordCacheVersion = 1

// recordCacheTTL bounds how long a cached record is trusted.
const recordCacheTTL = 30 * 24 * time.Hour

// cachedRecord returns the cached record for key, or compute's result which is then stored.
func cachedRecord(store contract.CacheStore, key string, compute func() (schema.GameRecord, error)) (schema.GameRecord, error) {
	if store == nil {
		return compute()
	}
	if record, ok := checkCacheHit(store, key); ok {
		return record, nil
	}

	record, err := compute()
	if err != nil {
		return schema.GameRecord{}, err
	}
	if data, err := json.Marshal(record); err == nil {
		if err := store.Set(key, data, RecordCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Record cache write failed", err)
		}
	}
	return record, nil
}

// checkCacheHit attempts to retrieve and validate a cached record
func checkCacheHit(store contract.CacheStore, key string) (schema.GameRecord, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.GameRecord{}, false // Cache miss
	}
	if version != RecordCacheVersion || time.Since(time.Unix(ts, 0)) > recordCacheTTL {
		return schema.GameRecord{}, false // Stale or version mismatch
	}

	var record schema.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return schema.GameRecord{}, false
	}
	return record, true
}

// recordCacheKey identifies a replay by content, so renamed files still hit.
func recordCacheKey(replay []byte, extractMoves bool) string {
	suffix := contract.BasicKeySuffix
	if extractMoves {
		suffix = contract.MovesKeySuffix
	}
	return fmt.Sprintf("%x%s", sha256.Sum256(replay), suffix)
}
