package internal

import "fmt"

// Cache holds computed rule-set membership, rule indexes and fingerprint
// lookups between engine passes. Implementations are not required to be
// safe for concurrent use; the engine is single-threaded by design.
//
// The coherence contract is coarse: any write to a record, meta or rule set
// invalidates the whole cache. Scoped invalidation is allowed as long as no
// stale membership is ever served after a relevant write.
type Cache interface {
	Fetch(key string) (any, bool)
	Store(key string, value any)
	// Invalidate removes the given keys, or everything when called with none.
	Invalidate(keys ...string)
}

// MemoryCache is an unbounded in-process Cache. No TTL, no eviction;
// personal-finance volumes never justify either.
type MemoryCache struct {
	store map[string]any
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: map[string]any{}}
}

func (c *MemoryCache) Fetch(key string) (any, bool) {
	v, ok := c.store[key]
	return v, ok
}

func (c *MemoryCache) Store(key string, value any) {
	c.store[key] = value
}

func (c *MemoryCache) Invalidate(keys ...string) {
	if len(keys) == 0 {
		c.store = map[string]any{}
		return
	}
	for _, k := range keys {
		delete(c.store, k)
	}
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	return len(c.store)
}

// cacheKey builds a cache key from a prefix and its parts.
func cacheKey(prefix string, parts ...any) string {
	key := prefix
	for _, p := range parts {
		key = fmt.Sprintf("%s:%v", key, p)
	}
	return key
}
