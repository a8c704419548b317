// Package infra provides shared infrastructure components used across
// the application: logging, caching and rate limiting.
package infra

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// --- Rendered artefact cache ---

// Cache holds rendered charts keyed by view parameters. The table behind
// every entry never changes, so expiry only bounds memory; go-cache's
// janitor drops expired entries every two TTLs.
// A non-positive TTL disables caching: Set is a no-op and Get always misses.
type Cache struct {
	store *cache.Cache
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{}
	if ttl > 0 {
		c.store = cache.New(ttl, 2*ttl)
	}
	return c
}

// Get returns the live entry for key.
func (c *Cache) Get(key string) (any, bool) {
	if c.store == nil {
		return nil, false
	}
	return c.store.Get(key)
}

// Set stores value under key for one TTL.
func (c *Cache) Set(key string, value any) {
	if c.store == nil {
		return
	}
	c.store.Set(key, value, cache.DefaultExpiration)
}

// GetOrCompute returns the cached value for key, calling compute and
// caching its result on a miss. Errors are returned and never cached.
// Concurrent misses may compute the same key more than once.
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := compute()
	if err != nil {
		return nil, false, err
	}
	c.Set(key, v)
	return v, false, nil
}

// Len returns the number of stored entries, expired ones not yet swept
// included.
func (c *Cache) Len() int {
	if c.store == nil {
		return 0
	}
	return c.store.ItemCount()
}

