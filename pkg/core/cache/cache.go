package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store. Documents are kept
// encoded so reads never share state with the caller.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry

	// Metrics
	hits   int64
	misses int64
}

type memoryEntry struct {
	key  Key
	body []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry)}
}

// Get decodes the document for key into out
func (c *MemoryStore) Get(_ context.Context, key Key, out any) (bool, error) {
	if err := key.validate(); err != nil {
		return false, err
	}

	c.mu.Lock()
	entry, exists := c.items[key.String()]
	if exists {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !exists {
		return false, nil
	}
	return true, decode(key, entry.body, out)
}

// Put stores v under key
func (c *MemoryStore) Put(_ context.Context, key Key, v any) error {
	if err := key.validate(); err != nil {
		return err
	}
	body, err := encode(key, v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key.String()] = memoryEntry{key: key, body: body}
	return nil
}

// Prune removes documents older than the calendar date of before
func (c *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, entry := range c.items {
		if entry.key.dayBefore(before) {
			delete(c.items, k)
			removed++
		}
	}
	return removed, nil
}

// Size returns the number of stored documents
func (c *MemoryStore) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all documents
func (c *MemoryStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]memoryEntry)
}

// Stats returns cache statistics
func (c *MemoryStore) Stats() (hits, misses int64, hitRate float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hits = c.hits
	misses = c.misses
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}
