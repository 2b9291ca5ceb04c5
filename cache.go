// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package annotations

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a read-through cache of parsed docblocks keyed by their exact text.
// Implementations must be safe for concurrent use and must only ever store
// the [Bag] returned by parse for the same text.
type Cache interface {
	Load(text string, parse func(string) (Bag, error)) (Bag, error)
}

// MemoryCache is an unbounded, in-memory [Cache]. Concurrent loads of the
// same uncached text share a single parse. Failed parses are not cached.
type MemoryCache struct {
	bags  sync.Map
	group singleflight.Group
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load implements the [Cache] interface.
func (c *MemoryCache) Load(text string, parse func(string) (Bag, error)) (Bag, error) {
	if b, ok := c.bags.Load(text); ok {
		return b.(Bag), nil
	}

	v, err, _ := c.group.Do(text, func() (any, error) {
		b, err := parse(text)
		if err != nil {
			return nil, err
		}
		actual, _ := c.bags.LoadOrStore(text, b)
		return actual, nil
	})
	if err != nil {
		return Bag{}, err
	}
	return v.(Bag), nil
}

// Len returns the number of cached docblocks.
func (c *MemoryCache) Len() int {
	n := 0
	c.bags.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Purge removes every cached docblock.
func (c *MemoryCache) Purge() {
	c.bags.Clear()
}
