package rates

import (
	"sync"
	"time"

	"github.com/tagsnap/tagsnap/internal/model"
)

// cacheEntry represents a cached rate table for one base currency.
type cacheEntry struct {
	expiry time.Time
	table  model.RateTable
}

// tableCache provides thread-safe caching of fetched rate tables.
type tableCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newTableCache creates a new cache with the specified TTL.
func newTableCache(ttl time.Duration) *tableCache {
	if ttl == 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	cache := &tableCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go cache.cleanup()

	return cache
}

// get retrieves a table from the cache if it exists and hasn't expired.
func (c *tableCache) get(base string) (model.RateTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[base]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiry) {
		return nil, false
	}

	return entry.table, true
}

// set stores a table in the cache.
func (c *tableCache) set(base string, table model.RateTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[base] = cacheEntry{
		table:  table,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *tableCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for base, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, base)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *tableCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *tableCache) Close() {
	close(c.stopCh)
}
