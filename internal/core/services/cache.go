package services

import (
	"container/list"
	"crypto/sha256"
	"sync"
)

// queryKey identifies a query text in the embedding cache.
type queryKey [sha256.Size]byte

type cacheEntry struct {
	key    queryKey
	vector []float32
}

// embeddingCache is a bounded LRU of query embeddings keyed by the
// SHA-256 of the query text. A capacity of zero disables caching.
type embeddingCache struct {
	mu       sync.Mutex
	capacity int
	items    map[queryKey]*list.Element
	ll       *list.List
}

func newEmbeddingCache(capacity int) *embeddingCache {
	if capacity < 0 {
		capacity = 0
	}
	return &embeddingCache{
		capacity: capacity,
		items:    make(map[queryKey]*list.Element, capacity),
		ll:       list.New(),
	}
}

func keyFor(query string) queryKey {
	return sha256.Sum256([]byte(query))
}

// Get returns a copy of the cached vector for query.
func (c *embeddingCache) Get(query string) ([]float32, bool) {
	if c == nil || c.capacity == 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[keyFor(query)]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)
	return cloneVector(entry.vector), true
}

// Put stores a copy of vector for query, evicting the least recently used entry when full.
func (c *embeddingCache) Put(query string, vector []float32) {
	if c == nil || c.capacity == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := keyFor(query)
	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).vector = cloneVector(vector)
		c.ll.MoveToFront(elem)
		return
	}

	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, vector: cloneVector(vector)})
	if c.ll.Len() > c.capacity {
		if tail := c.ll.Back(); tail != nil {
			c.ll.Remove(tail)
			delete(c.items, tail.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *embeddingCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops every entry.
func (c *embeddingCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[queryKey]*list.Element, c.capacity)
	c.ll.Init()
}

func cloneVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
