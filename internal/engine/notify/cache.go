package notify

import (
	"sync"
	"time"
)

type cachedEntity struct {
	value    interface{}
	cachedAt time.Time
}

// entityCache is a bounded TTL read-through cache over the tenant store. It
// only holds found entities; misses are re-resolved so a deleted-then-restored
// comment is picked up again. When the cache is full of live entries, new
// values are not cached and the store absorbs the reads.
type entityCache struct {
	mu         sync.Mutex
	entries    map[string]cachedEntity
	ttl        time.Duration
	maxEntries int
}

func newEntityCache(ttl time.Duration, maxEntries int) *entityCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &entityCache{
		entries:    make(map[string]cachedEntity),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *entityCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *entityCache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.purgeExpiredLocked()
		if len(c.entries) >= c.maxEntries {
			return
		}
	}
	c.entries[key] = cachedEntity{value: value, cachedAt: time.Now()}
}

func (c *entityCache) purgeExpiredLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.cachedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}
