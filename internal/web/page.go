package web

import (
	"context"

	"github.com/leonardcser/redis-basic/internal/ttlcache"
)

// PageFunc returns the body of the page at url.
type PageFunc func(ctx context.Context, url string) (string, error)

// Getter performs the blocking network fetch behind a Fetcher.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// CacheKey is the cache key of url, shared by every PageFunc wrapped with
// CachePage on the same cache.
func CacheKey(url string) string { return "count:" + url }

// CachePage wraps fn so that a body fetched for a URL is served from cache
// until the cache TTL elapses. Errors from fn are returned unchanged and
// nothing is cached for them.
func CachePage(cache *ttlcache.Cache[string], fn PageFunc) PageFunc {
	return func(ctx context.Context, url string) (string, error) {
		key := CacheKey(url)
		if body, ok := cache.Get(key); ok {
			return body, nil
		}
		body, err := fn(ctx, url)
		if err != nil {
			return "", err
		}
		cache.Set(key, body)
		return body, nil
	}
}

// Fetcher fetches pages through a TTL cache.
type Fetcher struct {
	get PageFunc
}

func NewFetcher(cache *ttlcache.Cache[string], getter Getter) *Fetcher {
	return &Fetcher{get: CachePage(cache, getter.Get)}
}

// GetPage returns the body of url, from cache when a live entry exists.
func (f *Fetcher) GetPage(ctx context.Context, url string) (string, error) {
	return f.get(ctx, url)
}
