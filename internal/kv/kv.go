package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: not found")

// Backend defines the minimal key-value contract the store facade relies on.
// It mirrors the Redis primitives SET, GET, INCRBY, RPUSH, LRANGE and FLUSHDB.
// Implementations must make Incr and RPush atomic per key.
type Backend interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string, amount int64) (int64, error)
	RPush(ctx context.Context, key string, value []byte) (int64, error)
	// LRange returns the elements between start and stop inclusive.
	// Negative indexes count from the end of the list, -1 being the last.
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	FlushDB(ctx context.Context) error
	Close() error
}

// rangeBounds clamps Redis-style [start, stop] indexes against a list of
// length n and returns a half-open interval. ok is false for an empty range.
func rangeBounds(n, start, stop int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return 0, 0, false
	}
	return start, stop + 1, true
}
