package forms

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL cache shared by request handlers. Expired entries are never
// returned and are dropped by Cleanup.
type Cache[V any] struct {
	entries map[string]cacheEntry[V]
	ttl     time.Duration
	nowFunc func() time.Time
	mu      sync.RWMutex
}

func NewCache[V any](ttl time.Duration, nowFunc func() time.Time) *Cache[V] {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Cache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		nowFunc: nowFunc,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.nowFunc().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set is a no-op when the TTL is not positive.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, expiresAt: c.nowFunc().Add(c.ttl)}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Cleanup removes expired entries and returns how many were removed.
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFunc()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
