package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/leonardcser/redis-basic/internal/kv"
)

// WithCallCount returns a Store that increments the counter of each listed
// operation by one before delegating to inner. Other operations pass through.
func WithCallCount(inner Store, backend kv.Backend, ops ...Op) Store {
	return &countingStore{inner: inner, backend: backend, ops: ops}
}

// WithCallHistory returns a Store that records each call of the listed
// operations: the formatted arguments are pushed to the inputs log before
// delegating and the formatted result to the outputs log afterwards.
// A failed call logs "error: <message>" as its output so the logs stay
// index-aligned.
func WithCallHistory(inner Store, backend kv.Backend, ops ...Op) Store {
	return &historyStore{inner: inner, backend: backend, ops: ops}
}

// CallCount returns the counter of op, 0 if it was never incremented.
func CallCount(ctx context.Context, backend kv.Backend, op Op) (int64, error) {
	raw, err := backend.Get(ctx, string(op))
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseInt(raw)
}

type countingStore struct {
	inner   Store
	backend kv.Backend
	ops     []Op
}

func (s *countingStore) Store(ctx context.Context, value any) (string, error) {
	if err := s.count(ctx, OpStore); err != nil {
		return "", err
	}
	return s.inner.Store(ctx, value)
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.count(ctx, OpGet); err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, key)
}

func (s *countingStore) count(ctx context.Context, op Op) error {
	if !slices.Contains(s.ops, op) {
		return nil
	}
	if _, err := s.backend.Incr(ctx, string(op), 1); err != nil {
		return fmt.Errorf("count %s: %w", op, err)
	}
	return nil
}

type historyStore struct {
	inner   Store
	backend kv.Backend
	ops     []Op
}

func (s *historyStore) Store(ctx context.Context, value any) (string, error) {
	return track(ctx, s, OpStore, []any{value}, func() (string, error) {
		return s.inner.Store(ctx, value)
	})
}

func (s *historyStore) Get(ctx context.Context, key string) ([]byte, error) {
	return track(ctx, s, OpGet, []any{key}, func() ([]byte, error) {
		return s.inner.Get(ctx, key)
	})
}

func track[R any](ctx context.Context, s *historyStore, op Op, args []any, call func() (R, error)) (R, error) {
	if !slices.Contains(s.ops, op) {
		return call()
	}
	var zero R
	if _, err := s.backend.RPush(ctx, op.InputsKey(), []byte(FormatArgs(args...))); err != nil {
		return zero, fmt.Errorf("record %s inputs: %w", op, err)
	}
	res, callErr := call()
	out := FormatResult(res)
	if callErr != nil {
		out = "error: " + callErr.Error()
	}
	if _, err := s.backend.RPush(ctx, op.OutputsKey(), []byte(out)); err != nil {
		return zero, fmt.Errorf("record %s outputs: %w", op, err)
	}
	return res, callErr
}
