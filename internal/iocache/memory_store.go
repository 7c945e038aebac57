package iocache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
)

// MemoryStore is a process-local CacheStore. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]contract.CacheEntry
}

var _ contract.CacheStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]contract.CacheEntry)}
}

// Get implements the CacheStore interface.
func (ms *MemoryStore) Get(key string) (contract.CacheEntry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	entry, ok := ms.entries[key]
	if !ok {
		return contract.CacheEntry{Key: key}, contract.ErrCacheEntryNotFound
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return entry, nil
}

// Set implements the CacheStore interface.
func (ms *MemoryStore) Set(entry contract.CacheEntry) error {
	entry.Value = append([]byte(nil), entry.Value...)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[entry.Key] = entry
	return nil
}

// Delete implements the CacheStore interface.
func (ms *MemoryStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
	return nil
}

// Count implements the CacheStore interface.
func (ms *MemoryStore) Count(prefix string) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	n := 0
	for key := range ms.entries {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n, nil
}

// Oldest implements the CacheStore interface.
func (ms *MemoryStore) Oldest(prefix string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ms.mu.RLock()
	matched := make([]contract.CacheEntry, 0, len(ms.entries))
	for key, entry := range ms.entries {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, entry)
		}
	}
	ms.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt != matched[j].CreatedAt {
			return matched[i].CreatedAt < matched[j].CreatedAt
		}
		return matched[i].Key < matched[j].Key
	})

	keys := make([]string, 0, min(n, len(matched)))
	for i := 0; i < len(matched) && i < n; i++ {
		keys = append(keys, matched[i].Key)
	}
	return keys, nil
}

// DeletePrefix implements the CacheStore interface.
func (ms *MemoryStore) DeletePrefix(prefix string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var n int64
	for key := range ms.entries {
		if strings.HasPrefix(key, prefix) {
			delete(ms.entries, key)
			n++
		}
	}
	return n, nil
}

// DeleteExpired implements the CacheStore interface.
func (ms *MemoryStore) DeleteExpired(prefix string, now int64) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var n int64
	for key, entry := range ms.entries {
		if strings.HasPrefix(key, prefix) && entry.Expired(now) {
			delete(ms.entries, key)
			n++
		}
	}
	return n, nil
}

// GetStatus implements the CacheStore interface.
func (ms *MemoryStore) GetStatus() (schema.CacheStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status := schema.CacheStatus{
		Backend:      string(schema.MemoryBackend),
		Connected:    true,
		TotalEntries: len(ms.entries),
	}
	now := time.Now().UnixMilli()
	var newest, oldest int64
	first := true
	for _, entry := range ms.entries {
		if first || entry.CreatedAt > newest {
			newest = entry.CreatedAt
		}
		if first || entry.CreatedAt < oldest {
			oldest = entry.CreatedAt
		}
		first = false
		if entry.Expired(now) {
			status.ExpiredEntries++
		}
		status.TableSizeBytes += int64(len(entry.Key) + len(entry.Value))
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.UnixMilli(newest)
		status.OldestEntryTime = time.UnixMilli(oldest)
	}
	return status, nil
}

// Close implements the CacheStore interface.
func (ms *MemoryStore) Close() error {
	return nil
}
