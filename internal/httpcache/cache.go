// Package httpcache provides an in-process read cache with named-tag
// invalidation. The storefront previously leaned on its render framework's
// fetch cache (per-request tags plus a revalidation window); this package is
// the gateway-owned equivalent: backend reads are cached by URL for their
// revalidate window, and cart/catalog mutations purge the tags they touch.
package httpcache

import (
	"sync"
	"time"
)

// Well-known cache tags used across the gateway.
const (
	TagProducts    = "products"
	TagCollections = "collections"
	TagCart        = "cart"
)

type entry struct {
	body    []byte
	expires time.Time
	tags    []string
}

// Cache is a TTL cache keyed by request URL, purgeable by tag.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is a test hook; defaults to time.Now.
	now func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached body for key if present and not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Set stores body under key for ttl, associated with the given tags.
// A non-positive ttl stores nothing.
func (c *Cache) Set(key string, body []byte, ttl time.Duration, tags []string) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		body:    body,
		expires: c.now().Add(ttl),
		tags:    tags,
	}
}

// Purge drops every entry associated with any of the given tags.
func (c *Cache) Purge(tags ...string) {
	if len(tags) == 0 {
		return
	}

	purge := make(map[string]bool, len(tags))
	for _, t := range tags {
		purge[t] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		for _, t := range e.tags {
			if purge[t] {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Len reports the number of live entries. Expired entries that have not been
// read since expiry still count; Get performs the lazy eviction.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
