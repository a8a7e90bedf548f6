// FILE: othello/internal/server/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Entry is a finished engine search for one position
type Entry struct {
	Move  string  `json:"move"`
	Value float64 `json:"value"`
	Depth int     `json:"depth"`
	Nodes int64   `json:"nodes"`
}

// Cache stores engine results between requests. A miss is reported as
// found == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key identifies a search: the same position searched by the same
// strategy, depth and evaluator always yields the same result
func Key(position, strategy string, depth int, evaluator string) string {
	return fmt.Sprintf("othello:engine:%s:%d:%s:%s", strategy, depth, evaluator, position)
}

// MemoryCache keeps at most size entries, evicting the oldest insert
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	order   []string // Insertion order, oldest first
	size    int
}

func NewMemoryCache(size int) *MemoryCache {
	if size < 1 {
		size = 1
	}
	return &MemoryCache{
		entries: make(map[string]Entry, size),
		order:   make([]string, 0, size),
		size:    size,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return nil
	}

	if len(c.order) == c.size {
		delete(c.entries, c.order[0])
		c.order = slices.Delete(c.order, 0, 1)
	}
	c.order = append(c.order, key)
	c.entries[key] = entry
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return nil
	}
	delete(c.entries, key)
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	return nil
}
