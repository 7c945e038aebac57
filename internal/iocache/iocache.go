// Package iocache is for caching upstream I/O calls.
package iocache

import (
	"sync"

	"github.com/huangsam/osscompass/internal/contract"
)

// CacheStoreManager manages the CacheStore instance behind the response cache.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	response     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the response CacheStore.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}
