// Package cache provides the per-cycle TTL cache and the optional
// Redis-backed state store.
package cache

import (
	"sync"
	"time"
)

// Well-known cache keys used by the cycle driver.
const (
	KeyLastPrice   = "last_price"
	KeyLastATR     = "last_atr"
	KeyLastGrid    = "last_grid"
	KeyStreamPrice = "stream_price"
)

type entry struct {
	value      interface{}
	recordedAt time.Time
	ttl        time.Duration
}

// TTLCache memoizes values with per-entry expiry. Entries live only in
// process memory and are discarded on restart. The cycle driver is the only
// writer between cycle barriers, so no per-cycle locking discipline is
// needed beyond the cache's own mutex.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewTTLCache creates an empty cache.
func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]entry)}
}

// Set stores a value with the given TTL. A non-positive TTL keeps the entry
// until overwritten.
func (c *TTLCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, recordedAt: time.Now(), ttl: ttl}
}

// Get returns the value if present and unexpired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.ttl > 0 && time.Since(e.recordedAt) > e.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// GetFloat returns a float64 value if present and unexpired.
func (c *TTLCache) GetFloat(key string) (float64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Delete removes an entry.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, counting expired ones not yet
// swept.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
