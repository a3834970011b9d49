package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(recordTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*CacheStoreImpl)
	require.True(t, ok)
	return impl
}

func TestCacheStoreGetSet(t *testing.T) {
	store := newTestCacheStore(t)

	_, _, _, err := store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("abc:moves", []byte(`{"player_count":2}`), 3, 1700000000))
	value, version, ts, err := store.Get("abc:moves")
	require.NoError(t, err)
	assert.Equal(t, `{"player_count":2}`, string(value))
	assert.Equal(t, 3, version)
	assert.Equal(t, int64(1700000000), ts)

	// Upsert replaces the previous entry
	require.NoError(t, store.Set("abc:moves", []byte(`{}`), 4, 1700000100))
	value, version, _, err = store.Get("abc:moves")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(value))
	assert.Equal(t, 4, version)
}

func TestCacheStoreStatus(t *testing.T) {
	store := newTestCacheStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalEntries)

	require.NoError(t, store.Set("aa:moves", []byte("1"), 1, 1700000000))
	require.NoError(t, store.Set("bb:basic", []byte("2"), 1, 1700000500))
	require.NoError(t, store.Set("cc:moves", []byte("3"), 1, 1700000200))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalEntries)
	assert.Equal(t, 2, status.MovesEntries)
	assert.Equal(t, time.Unix(1700000500, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(1700000000, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(recordTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-table;", schema.SQLiteBackend, "")
	assert.ErrorContains(t, err, "invalid table name")

	_, err = NewCacheStore(recordTable, schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}
