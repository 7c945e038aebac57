package contract

import (
	"errors"

	"github.com/huangsam/osscompass/schema"
)

// ErrCacheEntryNotFound is returned by a CacheStore when a key is absent.
var ErrCacheEntryNotFound = errors.New("cache entry not found")

// CacheEntry is a single stored response.
// CreatedAt and TTL are both in milliseconds.
type CacheEntry struct {
	Key       string
	Value     []byte
	Version   int
	CreatedAt int64
	TTL       int64
}

// Expired reports whether the entry is past its TTL at now (unix ms).
func (e CacheEntry) Expired(now int64) bool {
	return now-e.CreatedAt > e.TTL
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	// Get returns the entry for key or ErrCacheEntryNotFound.
	Get(key string) (CacheEntry, error)

	// Set inserts or replaces the entry with the same key.
	Set(entry CacheEntry) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Count returns the number of entries whose key starts with prefix.
	Count(prefix string) (int, error)

	// Oldest returns up to n keys under prefix ordered by creation time, oldest first.
	Oldest(prefix string, n int) ([]string, error)

	// DeletePrefix removes every entry under prefix.
	DeletePrefix(prefix string) (int64, error)

	// DeleteExpired removes every entry under prefix that is expired at now (unix ms).
	DeleteExpired(prefix string, now int64) (int64, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}
