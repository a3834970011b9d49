// Package iocache persists parsed records and aggregation history in SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/slipstat/internal/contract"
)

// StoreManagerImpl manages the record cache and history stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	records      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetRecordStore returns the parsed-record CacheStore.
func (mgr *StoreManagerImpl) GetRecordStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

// GetHistoryStore returns the aggregation HistoryStore.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
