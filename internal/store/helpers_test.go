package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leonardcser/redis-basic/internal/kv"
)

func openBackend(t *testing.T) *kv.Bolt {
	t.Helper()
	b, err := kv.OpenBolt(filepath.Join(t.TempDir(), "store.bbolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newCache(t *testing.T) (*Cache, *kv.Bolt) {
	t.Helper()
	b := openBackend(t)
	c, err := New(context.Background(), b)
	require.NoError(t, err)
	return c, b
}

func lrange(t *testing.T, b kv.Backend, key string) []string {
	t.Helper()
	vals, err := b.LRange(context.Background(), key, 0, -1)
	require.NoError(t, err)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

var errBroken = errors.New("broken")

// failingStore fails every call after recording that it was reached.
type failingStore struct {
	calls int
}

func (f *failingStore) Store(context.Context, any) (string, error) {
	f.calls++
	return "", errBroken
}

func (f *failingStore) Get(context.Context, string) ([]byte, error) {
	f.calls++
	return nil, errBroken
}

// flakyBackend fails Incr and RPush, and delegates everything else.
type flakyBackend struct {
	kv.Backend
}

func (flakyBackend) Incr(context.Context, string, int64) (int64, error) { return 0, errBroken }

func (flakyBackend) RPush(context.Context, string, []byte) (int64, error) { return 0, errBroken }
