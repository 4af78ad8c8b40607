package imgtag

import (
	"context"
	"sync"
	"time"
)

// MemoryFetchCache is an in-process FetchCache with TTL expiry and
// least-recently-used eviction.
type MemoryFetchCache struct {
	mu        sync.RWMutex
	entries   map[string]*fetchCacheEntry
	config    MemoryFetchCacheConfig
	stats     FetchCacheStats
	evictList []string // LRU tracking, least recent first
}

// fetchCacheEntry holds a cached response with metadata.
type fetchCacheEntry struct {
	Response  *Response
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
}

// MemoryFetchCacheConfig configures the memory cache behavior.
type MemoryFetchCacheConfig struct {
	// TTL is how long responses are cached. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached responses. Default: 1000.
	MaxEntries int

	// KeyPrefix is prepended to all cache keys. Useful for namespacing.
	KeyPrefix string
}

// FetchCacheStats tracks cache performance metrics.
type FetchCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// DefaultMemoryFetchCacheConfig returns sensible defaults.
func DefaultMemoryFetchCacheConfig() MemoryFetchCacheConfig {
	return MemoryFetchCacheConfig{
		TTL:        DefaultFetchCacheTTL,
		MaxEntries: DefaultFetchCacheMaxEntries,
	}
}

// NewMemoryFetchCache creates a new memory cache.
func NewMemoryFetchCache(config MemoryFetchCacheConfig) *MemoryFetchCache {
	if config.TTL <= 0 {
		config.TTL = DefaultFetchCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultFetchCacheMaxEntries
	}

	return &MemoryFetchCache{
		entries:   make(map[string]*fetchCacheEntry),
		config:    config,
		evictList: make([]string, 0, config.MaxEntries),
	}
}

// Get returns a copy of the cached response if present and not expired.
func (c *MemoryFetchCache) Get(_ context.Context, url string) (*Response, bool, error) {
	key := c.config.KeyPrefix + url

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		return nil, false, nil
	}

	if time.Now().After(entry.ExpiresAt) {
		c.removeLocked(key)
		c.stats.Misses++
		return nil, false, nil
	}

	entry.HitCount++
	c.stats.Hits++
	c.touchLocked(key)
	return entry.Response.Clone(), true, nil
}

// Set stores a copy of resp.
func (c *MemoryFetchCache) Set(_ context.Context, url string, resp *Response) error {
	if resp == nil {
		return nil
	}
	key := c.config.KeyPrefix + url
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.removeLocked(key)
	}
	if len(c.entries) >= c.config.MaxEntries {
		c.evictOldest()
	}

	c.entries[key] = &fetchCacheEntry{
		Response:  resp.Clone(),
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.TTL),
	}
	c.evictList = append(c.evictList, key)
	c.stats.EntryCount = len(c.entries)
	c.stats.TotalSize += int64(len(resp.Body))
	return nil
}

// Delete removes a specific cache entry.
func (c *MemoryFetchCache) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(c.config.KeyPrefix + url)
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryFetchCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*fetchCacheEntry)
	c.evictList = make([]string, 0, c.config.MaxEntries)
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryFetchCache) Stats() FetchCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *MemoryFetchCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries. Call periodically for long-running applications.
func (c *MemoryFetchCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

func (c *MemoryFetchCache) removeLocked(key string) {
	entry, exists := c.entries[key]
	if !exists {
		return
	}
	c.stats.TotalSize -= int64(len(entry.Response.Body))
	delete(c.entries, key)
	c.dropFromEvictList(key)
	c.stats.EntryCount = len(c.entries)
}

func (c *MemoryFetchCache) touchLocked(key string) {
	c.dropFromEvictList(key)
	c.evictList = append(c.evictList, key)
}

func (c *MemoryFetchCache) dropFromEvictList(key string) {
	for i, k := range c.evictList {
		if k == key {
			c.evictList = append(c.evictList[:i], c.evictList[i+1:]...)
			return
		}
	}
}

// evictOldest removes the least recently used entry.
func (c *MemoryFetchCache) evictOldest() {
	if len(c.evictList) == 0 {
		return
	}
	c.removeLocked(c.evictList[0])
	c.stats.Evictions++
}
