package registry

import (
	"maps"
	"sync"
	"time"

	"authflow/internal/relier/schema"
)

type cacheEntry struct {
	params    schema.Params
	expiresAt time.Time
}

// clientCache is a TTL cache of registry records.
type clientCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newClientCache(ttl time.Duration) *clientCache {
	return &clientCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of a live entry.
func (c *clientCache) Get(clientID string) (schema.Params, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[clientID]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return maps.Clone(entry.params), true
}

// GetStale returns a copy of an entry whether or not it has expired.
func (c *clientCache) GetStale(clientID string) (schema.Params, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[clientID]
	if !ok {
		return nil, false
	}
	return maps.Clone(entry.params), true
}

func (c *clientCache) Set(clientID string, params schema.Params) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[clientID] = &cacheEntry{
		params:    maps.Clone(params),
		expiresAt: c.now().Add(c.ttl),
	}
	c.cleanupExpiredLocked(10)
}

// cleanupExpiredLocked removes up to maxCleanup expired entries.
func (c *clientCache) cleanupExpiredLocked(maxCleanup int) {
	now := c.now()
	cleaned := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			cleaned++
			if cleaned >= maxCleanup {
				break
			}
		}
	}
}
