package cache

import (
	"sync"

	"chordsuggest/backend/internal/embedding"
)

// NeighborCache defines a simple interface for storing and retrieving
// nearest-neighbour results.
type NeighborCache interface {
	// Get returns the neighbours stored for the given key and whether they were found.
	Get(key string) ([]embedding.Neighbor, bool)
	// Set stores the neighbours for the given key.
	Set(key string, neighbors []embedding.Neighbor)
}

// InMemoryCache is a thread-safe, bounded, in-memory implementation of
// NeighborCache. When full, the oldest entry is evicted first.
type InMemoryCache struct {
	mu       sync.RWMutex
	store    map[string][]embedding.Neighbor
	order    []string
	capacity int
}

// NewInMemoryCache initializes a cache holding at most capacity entries.
// A non-positive capacity yields a cache that never stores anything.
func NewInMemoryCache(capacity int) *InMemoryCache {
	if capacity < 0 {
		capacity = 0
	}
	return &InMemoryCache{
		store:    make(map[string][]embedding.Neighbor),
		capacity: capacity,
	}
}

// Get retrieves neighbours from the cache by key.
// It returns a copy of the stored slice to prevent callers from mutating internal state.
func (c *InMemoryCache) Get(key string) ([]embedding.Neighbor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.store[key]
	if !found {
		return nil, false
	}

	copied := make([]embedding.Neighbor, len(val))
	copy(copied, val)
	return copied, true
}

// Set adds or updates an entry in the cache.
// It makes an internal copy of the slice to protect against external mutations.
func (c *InMemoryCache) Set(key string, neighbors []embedding.Neighbor) {
	if c.capacity == 0 {
		return
	}

	copied := make([]embedding.Neighbor, len(neighbors))
	copy(copied, neighbors)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists {
		for len(c.order) >= c.capacity {
			delete(c.store, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, key)
	}
	c.store[key] = copied
}

// Len returns the number of cached entries.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
