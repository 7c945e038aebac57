package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/iocache"
	"github.com/huangsam/osscompass/schema"
)

// Lifetimes of cached upstream responses.
const (
	RepoSearchTTL  = 60 * time.Minute
	IssueSearchTTL = 15 * time.Minute
	RepositoryTTL  = 360 * time.Minute
	RepoIssuesTTL  = 15 * time.Minute
)

// CachedSearcher memoizes successful upstream responses in a ResponseCache.
// Failures are returned as-is and never cached.
type CachedSearcher struct {
	upstream contract.Searcher
	cache    *iocache.ResponseCache
}

var _ contract.Searcher = &CachedSearcher{} // Compile-time check

// NewCachedSearcher wraps upstream. A nil cache disables memoization.
func NewCachedSearcher(upstream contract.Searcher, cache *iocache.ResponseCache) *CachedSearcher {
	return &CachedSearcher{upstream: upstream, cache: cache}
}

// SearchRepositories implements the Searcher interface.
func (cs *CachedSearcher) SearchRepositories(ctx context.Context, criteria schema.RepoCriteria) ([]schema.Repository, error) {
	criteria = criteria.WithDefaults()
	return cached(cs.cache, cacheKey("repos", criteria), RepoSearchTTL, func() ([]schema.Repository, error) {
		return cs.upstream.SearchRepositories(ctx, criteria)
	})
}

// SearchIssues implements the Searcher interface.
func (cs *CachedSearcher) SearchIssues(ctx context.Context, criteria schema.IssueCriteria) ([]schema.Issue, error) {
	criteria = criteria.WithDefaults()
	return cached(cs.cache, cacheKey("issues", criteria), IssueSearchTTL, func() ([]schema.Issue, error) {
		return cs.upstream.SearchIssues(ctx, criteria)
	})
}

// GetRepository implements the Searcher interface.
func (cs *CachedSearcher) GetRepository(ctx context.Context, owner, name string) (schema.Repository, error) {
	key := cacheKey("repo", []string{owner, name})
	return cached(cs.cache, key, RepositoryTTL, func() (schema.Repository, error) {
		return cs.upstream.GetRepository(ctx, owner, name)
	})
}

// GetRepositoryByID implements the Searcher interface.
func (cs *CachedSearcher) GetRepositoryByID(ctx context.Context, id int64) (schema.Repository, error) {
	return cached(cs.cache, cacheKey("repo-id", id), RepositoryTTL, func() (schema.Repository, error) {
		return cs.upstream.GetRepositoryByID(ctx, id)
	})
}

// GetRepositoryIssues implements the Searcher interface.
func (cs *CachedSearcher) GetRepositoryIssues(ctx context.Context, owner, name string, labels []string) ([]schema.Issue, error) {
	key := cacheKey("repo-issues", map[string]any{"owner": owner, "name": name, "labels": labels})
	return cached(cs.cache, key, RepoIssuesTTL, func() ([]schema.Issue, error) {
		return cs.upstream.GetRepositoryIssues(ctx, owner, name, labels)
	})
}

// cached returns the stored value for key or fetches and stores it on a miss.
func cached[T any](rc *iocache.ResponseCache, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	var out T
	if rc != nil && rc.Get(key, &out) {
		return out, nil
	}
	out, err := fetch()
	if err != nil {
		return out, err
	}
	if rc != nil {
		rc.Set(key, out, ttl)
	}
	return out, nil
}

// cacheKey hashes the JSON form of params under a kind prefix.
func cacheKey(kind string, params any) string {
	data, _ := json.Marshal(params)
	sum := sha256.Sum256(data)
	return kind + "-" + hex.EncodeToString(sum[:])
}
