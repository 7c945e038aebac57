package iocache

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"go.uber.org/zap"
)

// Response cache defaults.
const (
	DefaultKeyPrefix = "osscompass-cache-"
	DefaultTTL       = 15 * time.Minute
	DefaultCapacity  = 50
	DefaultEvict     = 10
)

// currentCacheVersion is bumped whenever the stored payload shape changes.
// Entries written under another version are treated as misses.
const currentCacheVersion = 1

// ResponseCache memoizes JSON-serializable payloads with a per-entry TTL
// under a soft capacity bound. Storage failures never reach the caller.
type ResponseCache struct {
	// mu serializes a write with its cleanup pass so each pass recounts
	// after the previous eviction.
	mu sync.Mutex

	store    contract.CacheStore
	prefix   string
	capacity int
	evict    int
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithCapacity sets the entry count above which cleanup evicts the evict oldest entries.
func WithCapacity(capacity, evict int) Option {
	return func(rc *ResponseCache) {
		if capacity > 0 {
			rc.capacity = capacity
		}
		if evict > 0 {
			rc.evict = evict
		}
	}
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(log *zap.Logger) Option {
	return func(rc *ResponseCache) {
		if log != nil {
			rc.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(rc *ResponseCache) {
		if now != nil {
			rc.now = now
		}
	}
}

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) Option {
	return func(rc *ResponseCache) {
		rc.prefix = prefix
	}
}

// NewResponseCache wraps store with TTL and eviction semantics.
func NewResponseCache(store contract.CacheStore, opts ...Option) *ResponseCache {
	rc := &ResponseCache{
		store:    store,
		prefix:   DefaultKeyPrefix,
		capacity: DefaultCapacity,
		evict:    DefaultEvict,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Set stores value under key for ttl, or DefaultTTL when ttl <= 0.
// A failed write is logged and followed by a cleanup pass.
func (rc *ResponseCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	data, err := json.Marshal(value)
	if err == nil {
		err = rc.store.Set(contract.CacheEntry{
			Key:       rc.prefix + key,
			Value:     data,
			Version:   currentCacheVersion,
			CreatedAt: rc.now().UnixMilli(),
			TTL:       ttl.Milliseconds(),
		})
	}
	if err != nil {
		rc.log.Warn("cache storage failed", zap.String("key", key), zap.Error(err))
	}
	rc.cleanup()
}

// Get decodes the entry for key into out and reports whether it was a valid hit.
// Expired, stale-version and undecodable entries are deleted and reported as misses.
func (rc *ResponseCache) Get(key string, out any) bool {
	entry, err := rc.store.Get(rc.prefix + key)
	if err != nil {
		if !errors.Is(err, contract.ErrCacheEntryNotFound) {
			rc.log.Warn("cache retrieval failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if entry.Version != currentCacheVersion || entry.Expired(rc.now().UnixMilli()) {
		rc.Delete(key)
		return false
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		rc.log.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		rc.Delete(key)
		return false
	}
	return true
}

// Delete removes key. It is a no-op when the key is absent.
func (rc *ResponseCache) Delete(key string) {
	if err := rc.store.Delete(rc.prefix + key); err != nil {
		rc.log.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear removes every entry in this cache's namespace and nothing else.
func (rc *ResponseCache) Clear() (int64, error) {
	return rc.store.DeletePrefix(rc.prefix)
}

// Prune removes every expired entry in this cache's namespace.
func (rc *ResponseCache) Prune() (int64, error) {
	return rc.store.DeleteExpired(rc.prefix, rc.now().UnixMilli())
}

// Len returns the number of entries in this cache's namespace, valid or not.
func (rc *ResponseCache) Len() (int, error) {
	return rc.store.Count(rc.prefix)
}

// cleanup evicts the oldest entries by creation time once the namespace exceeds capacity.
// Reads do not refresh an entry's position.
func (rc *ResponseCache) cleanup() {
	n, err := rc.store.Count(rc.prefix)
	if err != nil {
		rc.log.Warn("cache cleanup count failed", zap.Error(err))
		return
	}
	if n <= rc.capacity {
		return
	}

	keys, err := rc.store.Oldest(rc.prefix, rc.evict)
	if err != nil {
		rc.log.Warn("cache cleanup scan failed", zap.Error(err))
		return
	}
	for _, key := range keys {
		if err := rc.store.Delete(key); err != nil {
			rc.log.Warn("cache eviction failed", zap.String("key", key), zap.Error(err))
		}
	}
	rc.log.Debug("cache evicted oldest entries", zap.Int("count", len(keys)), zap.Int("size", n))
}
