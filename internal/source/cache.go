package source

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultCacheSize is the number of sources kept when none is configured.
const DefaultCacheSize = 64

// Cache is a concurrency-safe store of decoded sources keyed by a random id.
// When full, the oldest entry is evicted.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]*Image
	order   []string
	limit   int
	onEvict func(id string)
}

// NewCache creates a cache holding at most limit sources.
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{
		items: make(map[string]*Image),
		limit: limit,
	}
}

// OnEvict registers fn to be called, outside the lock, with the id of
// every entry dropped to make room.
func (c *Cache) OnEvict(fn func(id string)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Put stores img and returns its id.
func (c *Cache) Put(img *Image) string {
	id := uuid.NewString()

	c.mu.Lock()
	var evicted []string
	for len(c.order) >= c.limit {
		evicted = append(evicted, c.order[0])
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
	c.items[id] = img
	c.order = append(c.order, id)
	hook := c.onEvict
	c.mu.Unlock()

	if hook != nil {
		for _, old := range evicted {
			hook(old)
		}
	}
	return id
}

// Get returns the source stored under id.
func (c *Cache) Get(id string) (*Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.items[id]
	return img, ok
}

// Delete drops id from the cache. It reports whether id was present.
func (c *Cache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
