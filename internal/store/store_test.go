package store

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FlushesBackend(t *testing.T) {
	ctx := context.Background()
	b := openBackend(t)
	require.NoError(t, b.Set(ctx, "stale", []byte("x")))
	_, err := b.RPush(ctx, OpStore.InputsKey(), []byte("old"))
	require.NoError(t, err)

	c, err := New(ctx, b)
	require.NoError(t, err)

	got, err := c.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, lrange(t, b, OpStore.InputsKey()))
}

func TestStore_ReturnsUUIDv4(t *testing.T) {
	c, _ := newCache(t)
	key, err := c.Store(context.Background(), "foo")
	require.NoError(t, err)

	id, err := uuid.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestStore_FreshKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := c.Store(ctx, i)
		require.NoError(t, err)
		assert.False(t, seen[key], "key %s reused", key)
		seen[key] = true
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"text", "foo", "foo"},
		{"empty text", "", ""},
		{"unicode", "héllo wörld", "héllo wörld"},
		{"bytes", []byte{0x00, 0xff, 0x10}, "\x00\xff\x10"},
		{"int", 42, "42"},
		{"negative int", int64(-7), "-7"},
		{"uint", uint8(255), "255"},
		{"float", 3.14, "3.14"},
		{"integral float", 1.0, "1.0"},
		{"float32", float32(0.5), "0.5"},
		{"large float", 1e100, "1e+100"},
		{"small float", 1e-5, "1e-05"},
		{"inf", math.Inf(1), "inf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, err := c.Store(ctx, tc.value)
			require.NoError(t, err)
			got, err := c.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestStore_UnsupportedValue(t *testing.T) {
	c, _ := newCache(t)
	_, err := c.Store(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestGet_MissingKey(t *testing.T) {
	c, _ := newCache(t)
	got, err := c.Get(context.Background(), "no-such-key")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRetrieveString(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	key, err := c.Store(ctx, "foo")
	require.NoError(t, err)
	got, err := RetrieveString(ctx, c, key)
	require.NoError(t, err)
	assert.Equal(t, "foo", got)
}

func TestRetrieveString_Missing(t *testing.T) {
	c, _ := newCache(t)
	got, err := RetrieveString(context.Background(), c, "absent")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRetrieveString_InvalidUTF8(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	key, err := c.Store(ctx, []byte{0xff, 0xfe})
	require.NoError(t, err)

	_, err = RetrieveString(ctx, c, key)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestRetrieveInt(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	key, err := c.Store(ctx, 123)
	require.NoError(t, err)
	got, err := RetrieveInt(ctx, c, key)
	require.NoError(t, err)
	assert.Equal(t, int64(123), got)

	key, err = c.Store(ctx, "twelve")
	require.NoError(t, err)
	_, err = RetrieveInt(ctx, c, key)
	assert.Error(t, err)
}

func TestRetrieve_Transform(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	key, err := c.Store(ctx, "abc")
	require.NoError(t, err)

	n, err := Retrieve(ctx, c, key, func(raw []byte) (int, error) { return len(raw), nil })
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRetrieve_NilTransform(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	key, err := c.Store(ctx, []byte("raw"))
	require.NoError(t, err)

	raw, err := Retrieve[[]byte](ctx, c, key, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), raw)

	_, err = Retrieve[string](ctx, c, key, nil)
	assert.Error(t, err)
}

func TestRetrieve_TransformSeesNilForMissing(t *testing.T) {
	c, _ := newCache(t)
	var sawNil bool
	_, err := Retrieve(context.Background(), c, "absent", func(raw []byte) (struct{}, error) {
		sawNil = raw == nil
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.True(t, sawNil)
}

func TestAttach_KeepsData(t *testing.T) {
	ctx := context.Background()
	b := openBackend(t)
	s, err := NewInstrumented(ctx, b)
	require.NoError(t, err)
	key, err := s.Store(ctx, "kept")
	require.NoError(t, err)

	again := Instrument(Attach(b), b)
	got, err := RetrieveString(ctx, again, key)
	require.NoError(t, err)
	assert.Equal(t, "kept", got)

	_, err = again.Store(ctx, "more")
	require.NoError(t, err)
	n, err := CallCount(ctx, b, OpStore)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
