// Package store is a key-value facade whose operations can be wrapped with
// call counting and call history recorded in the same backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/leonardcser/redis-basic/internal/kv"
)

// ErrUnsupportedValue is returned by Store for values that are not text,
// bytes, an integer or a float.
var ErrUnsupportedValue = errors.New("store: unsupported value type")

// Op is the qualified name of a Store operation. Counters and history logs
// are kept under keys derived from it.
type Op string

const (
	OpStore Op = "Cache.store"
	OpGet   Op = "Cache.get"
)

// InputsKey is the list holding formatted arguments, one entry per call.
func (o Op) InputsKey() string { return string(o) + ":inputs" }

// OutputsKey is the list holding formatted results, index-aligned with InputsKey.
func (o Op) OutputsKey() string { return string(o) + ":outputs" }

// Store is the facade contract. Decorators returned by WithCallCount and
// WithCallHistory implement it by delegating to an inner Store.
type Store interface {
	// Store writes value under a fresh random key and returns the key.
	Store(ctx context.Context, value any) (string, error)
	// Get returns the raw bytes under key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Cache is the undecorated Store on a kv.Backend.
type Cache struct {
	backend kv.Backend
}

// New binds backend and flushes it. Every existing key in the backend,
// including counters and history of earlier runs, is erased.
func New(ctx context.Context, backend kv.Backend) (*Cache, error) {
	if err := backend.FlushDB(ctx); err != nil {
		return nil, fmt.Errorf("flush backend: %w", err)
	}
	return &Cache{backend: backend}, nil
}

// Attach binds backend without flushing it, so counters and history
// written by other processes sharing the backend are kept.
func Attach(backend kv.Backend) *Cache {
	return &Cache{backend: backend}
}

// NewInstrumented returns a fresh Cache wrapped by Instrument.
func NewInstrumented(ctx context.Context, backend kv.Backend) (Store, error) {
	c, err := New(ctx, backend)
	if err != nil {
		return nil, err
	}
	return Instrument(c, backend), nil
}

// Instrument counts and history-tracks the Store operation of s. Counting
// is the outer layer, so a call is counted before its input is logged.
func Instrument(s Store, backend kv.Backend) Store {
	tracked := WithCallHistory(s, backend, OpStore)
	return WithCallCount(tracked, backend, OpStore)
}

// Store writes value under a fresh UUID v4 key without checking for an
// existing entry.
func (c *Cache) Store(ctx context.Context, value any) (string, error) {
	data, err := encodeValue(value)
	if err != nil {
		return "", err
	}
	key := uuid.NewString()
	if err := c.backend.Set(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the raw bytes under key, or nil when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// encodeValue converts value to the bytes written to the backend: text as
// UTF-8, bytes unchanged, integers in base 10 and floats via formatFloat.
func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case int:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int8:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int16:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int32:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int64:
		return strconv.AppendInt(nil, v, 10), nil
	case uint:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case uint8:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case uint16:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case uint32:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case uint64:
		return strconv.AppendUint(nil, v, 10), nil
	case float32:
		return []byte(formatFloat(float64(v), 32)), nil
	case float64:
		return []byte(formatFloat(v, 64)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// formatFloat writes f in its shortest round-trip decimal form. Integral
// values keep a ".0" suffix and magnitudes outside [1e-4, 1e16) use
// exponent notation, so 1 is "1.0" and 1e100 is "1e+100".
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
