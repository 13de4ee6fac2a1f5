package services

import "sync"

// embedCacheKeyLen bounds the cache key; queries longer than this
// share an entry with any query agreeing on the prefix.
const embedCacheKeyLen = 512

// embeddingCache is a bounded query-embedding cache with oldest-first
// eviction. It is read-mostly and safe for concurrent use.
type embeddingCache struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string][]float32
	order   []string
}

func newEmbeddingCache(maxSize int) *embeddingCache {
	return &embeddingCache{
		maxSize: maxSize,
		entries: make(map[string][]float32),
	}
}

func (c *embeddingCache) key(text string) string {
	if len(text) > embedCacheKeyLen {
		return text[:embedCacheKeyLen]
	}
	return text
}

func (c *embeddingCache) get(text string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.entries[c.key(text)]
	return vec, ok
}

func (c *embeddingCache) put(text string, vec []float32) {
	key := c.key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = vec
		return
	}
	for len(c.order) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = vec
	c.order = append(c.order, key)
}
