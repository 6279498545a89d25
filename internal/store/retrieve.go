package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrDecode is returned by RetrieveString when the stored bytes are not
// valid UTF-8.
var ErrDecode = errors.New("store: invalid utf-8")

// Retrieve reads key through s and converts the raw bytes with fn.
// fn also receives nil for an absent key. With a nil fn the raw bytes are
// returned, which requires T to be []byte.
func Retrieve[T any](ctx context.Context, s Store, key string, fn func([]byte) (T, error)) (T, error) {
	var zero T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if fn == nil {
		v, ok := any(raw).(T)
		if !ok {
			return zero, fmt.Errorf("store: no conversion from raw bytes to %T", zero)
		}
		return v, nil
	}
	return fn(raw)
}

// RetrieveInt reads key as a base-10 integer.
func RetrieveInt(ctx context.Context, s Store, key string) (int64, error) {
	return Retrieve(ctx, s, key, parseInt)
}

// RetrieveString reads key as UTF-8 text. An absent key yields "".
func RetrieveString(ctx context.Context, s Store, key string) (string, error) {
	return Retrieve(ctx, s, key, decodeUTF8)
}

func parseInt(raw []byte) (int64, error) {
	return strconv.ParseInt(string(raw), 10, 64)
}

func decodeUTF8(raw []byte) (string, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return string(out), nil
}
