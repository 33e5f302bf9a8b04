package fonts

import (
	"sync"
	"sync/atomic"
)

// cache is a generic bounded cache with oldest-access eviction. Lookups take
// the read lock only, so a miss being filled for one key never blocks
// lookups for other keys.
type cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*cacheEntry[V]
	limit   int // soft limit; 0 means unbounded
	tick    atomic.Int64
}

type cacheEntry[V any] struct {
	value V
	atime atomic.Int64
}

func newCache[K comparable, V any](limit int) *cache[K, V] {
	return &cache[K, V]{entries: make(map[K]*cacheEntry[V]), limit: limit}
}

func (c *cache[K, V]) get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	e.atime.Store(c.tick.Add(1))
	return e.value, true
}

func (c *cache[K, V]) set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &cacheEntry[V]{value: value}
	e.atime.Store(c.tick.Add(1))
	c.entries[key] = e
	if c.limit <= 0 {
		return
	}
	for len(c.entries) > c.limit {
		var oldest K
		min := int64(-1)
		for k, e := range c.entries {
			if at := e.atime.Load(); min < 0 || at < min {
				oldest, min = k, at
			}
		}
		delete(c.entries, oldest)
	}
}

func (c *cache[K, V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
