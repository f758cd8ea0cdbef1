package validators

import (
	"sync"

	"github.com/legaltech-cl/redactor/pkg/redact/metrics"
)

const defaultCacheSize = 8192

type cacheKey struct {
	category Category
	raw      string
}

// Cache memoizes validation results by (category, rawText). It is an
// optimization, not a correctness mechanism: a lost update on a race simply
// means the value gets recomputed. When the cache fills up it is reset
// wholesale rather than evicting per-entry.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Result
	max     int
}

// NewCache creates a cache bounded to max entries.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = defaultCacheSize
	}
	return &Cache{
		entries: make(map[cacheKey]Result),
		max:     max,
	}
}

// Get looks up a memoized result.
func (c *Cache) Get(category Category, raw string) (Result, bool) {
	c.mu.RLock()
	res, ok := c.entries[cacheKey{category, raw}]
	c.mu.RUnlock()

	if ok {
		metrics.CacheHits.WithLabelValues("validator").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("validator").Inc()
	}
	return res, ok
}

// Put stores a result, resetting the cache if it is full.
func (c *Cache) Put(category Category, raw string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		c.entries = make(map[cacheKey]Result)
	}
	c.entries[cacheKey{category, raw}] = res
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
