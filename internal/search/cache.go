package search

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defaults. Sizing is modest: the cache exists to absorb repeated
// questions inside a conversation, not to shadow the index.
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// ResultCache is a bounded, TTL-evicting cache for fused search results.
// It is constructor-injected into the orchestrator rather than living as
// process-wide state, so tests and multi-instance deployments own their
// own copies. Staleness after an index mutation is bounded by the TTL;
// the ingest path additionally purges the cache explicitly.
type ResultCache struct {
	lru *expirable.LRU[string, []*FusedResult]
}

// NewResultCache creates a cache with the given bounds. Non-positive size
// or TTL fall back to the defaults.
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, []*FusedResult](size, nil, ttl),
	}
}

// CacheKey builds the lookup key for a query and its options.
func CacheKey(query string, limit int, useLexical, useDense bool) string {
	return fmt.Sprintf("%s\x00%d\x00%t\x00%t", query, limit, useLexical, useDense)
}

// Get returns the cached results for key, if present and unexpired.
func (c *ResultCache) Get(key string) ([]*FusedResult, bool) {
	return c.lru.Get(key)
}

// Put stores results under key.
func (c *ResultCache) Put(key string, results []*FusedResult) {
	c.lru.Add(key, results)
}

// Purge drops all entries. Called after index mutations.
func (c *ResultCache) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
