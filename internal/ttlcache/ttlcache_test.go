package ttlcache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, capacity int, clock *fakeClock) *Cache[string] {
	t.Helper()
	c, err := New[string](Options{Capacity: capacity, TTL: 10 * time.Second, Now: clock.Now})
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New[int](Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())
	assert.Equal(t, DefaultCapacity, c.cap)
}

func TestGetSet(t *testing.T) {
	c := newTestCache(t, 10, newFakeClock())

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "1")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", got)

	c.Set("a", "2")
	got, _ = c.Get("a")
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Len())
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 10, clock)
	c.Set("a", "1")

	clock.Advance(9 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry should live for the whole TTL")

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire at the TTL")
	assert.Zero(t, c.Len())
}

func TestExpiry_GetDoesNotExtend(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 10, clock)
	c.Set("a", "1")
	for i := 0; i < 3; i++ {
		clock.Advance(4 * time.Second)
		c.Get("a")
	}
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t, 100, newFakeClock())
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	// Touch k0 so k1 becomes the least recently used.
	_, ok := c.Get("k0")
	require.True(t, ok)

	c.Set("k100", "v")

	assert.Equal(t, 100, c.Len())
	_, ok = c.Get("k1")
	assert.False(t, ok)
	_, ok = c.Get("k0")
	assert.True(t, ok)
	_, ok = c.Get("k100")
	assert.True(t, ok)
}

func TestFullCachePrefersExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 3, clock)
	c.Set("old", "v")
	clock.Advance(6 * time.Second)
	c.Set("a", "v")
	c.Set("b", "v")
	// Make "old" the most recently used before it expires.
	c.Get("old")
	clock.Advance(5 * time.Second)

	c.Set("c", "v")

	for _, k := range []string{"a", "b", "c"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	_, ok := c.Get("old")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, 50, newFakeClock())
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*i)%80)
				c.Set(key, "v")
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
