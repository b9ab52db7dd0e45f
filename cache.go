package unimoddb

import (
	"fmt"
	"strings"
	"sync"
)

// memoCache is the per-instance result cache for the pure lookup operations.
// Entries are keyed by operation name plus the full argument tuple and are
// never invalidated: the underlying store is immutable once loaded. Only
// successful results are cached; failed lookups re-query the store.
type memoCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func newMemoCache() *memoCache {
	return &memoCache{entries: make(map[string]interface{})}
}

// memoKey builds a cache key from an operation name and its arguments
func memoKey(op string, args ...interface{}) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, "|")
}

func (c *memoCache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoCache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *memoCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
