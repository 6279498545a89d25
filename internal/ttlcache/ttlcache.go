// Package ttlcache provides a bounded in-memory cache whose entries expire a
// fixed duration after insertion.
package ttlcache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultCapacity = 100
	DefaultTTL      = 10 * time.Second
)

type Options struct {
	// Capacity bounds the number of entries. Defaults to DefaultCapacity.
	Capacity int
	// TTL is how long an entry lives after Set. Defaults to DefaultTTL.
	TTL time.Duration
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// Cache is a least-recently-used cache with per-entry expiry. Expired
// entries are dropped lazily when they are looked up, or all at once when a
// Set finds the cache full; only then is the least recently used live entry
// evicted. It is safe for concurrent use.
type Cache[V any] struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, entry[V]]
	cap int
	ttl time.Duration
	now func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func New[V any](opts Options) (*Cache[V], error) {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	lru, err := simplelru.NewLRU[string, entry[V]](opts.Capacity, nil)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: lru, cap: opts.Capacity, ttl: opts.TTL, now: opts.Now}, nil
}

// TTL reports the lifetime given to new entries.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Get returns the live value under key and marks it recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	e, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if c.expired(e) {
		c.lru.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache TTL, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lru.Contains(key) && c.lru.Len() >= c.cap {
		c.removeExpired()
	}
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeExpired()
	return c.lru.Len()
}

func (c *Cache[V]) expired(e entry[V]) bool {
	return !c.now().Before(e.expiresAt)
}

func (c *Cache[V]) removeExpired() {
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && c.expired(e) {
			c.lru.Remove(k)
		}
	}
}
