// Package linkcache provides the fixed-capacity LRU cache that backs link
// resolution. Entries never expire by time; eviction is purely recency based,
// and failed resolutions are never stored, so a failed URL is retried on its
// next occurrence.
package linkcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 128

// Cache is a thread-safe LRU map from normalized URL to a resolved value.
// Get promotes the entry to most-recently-used; Set inserts or replaces the
// entry, marks it most-recently-used, and evicts least-recently-used entries
// until the count is at or below capacity. Capacity is fixed at construction.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
}

// New creates a cache holding at most capacity entries. A capacity of zero or
// less selects DefaultCapacity.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	entries, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lru store")
	}

	return &Cache[V]{entries: entries}, nil
}

// Get returns the value stored under key. A hit marks the entry
// most-recently-used; a miss leaves the cache unchanged.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

// Set stores value under key as the most-recently-used entry, evicting from
// the least-recently-used end until the capacity holds.
func (c *Cache[V]) Set(key string, value V) {
	c.entries.Add(key, value)
}

// Clear empties the cache entirely.
func (c *Cache[V]) Clear() {
	c.entries.Purge()
}

// Len returns the current number of entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}
