package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/store"
	"github.com/leonardcser/redis-basic/internal/ttlcache"
	web "github.com/leonardcser/redis-basic/internal/web"
)

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func setup(t *testing.T) (store.Store, kv.Backend) {
	t.Helper()
	b, err := kv.OpenBolt(filepath.Join(t.TempDir(), "tools.bbolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	s, err := store.NewInstrumented(context.Background(), b)
	require.NoError(t, err)
	return s, b
}

func TestStoreAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	res, err := StoreHandler(s)(ctx, newRequest("kv-store", map[string]any{"value": "foo"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	key := resultText(t, res)

	for as, want := range map[string]string{"raw": `b"foo"`, "text": "foo"} {
		res, err = GetHandler(s)(ctx, newRequest("kv-get", map[string]any{"key": key, "as": as}))
		require.NoError(t, err)
		assert.Equal(t, want, resultText(t, res), as)
	}
}

func TestStoreInt(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	res, err := StoreHandler(s)(ctx, newRequest("kv-store", map[string]any{"value": "42", "type": "int"}))
	require.NoError(t, err)
	key := resultText(t, res)

	res, err = GetHandler(s)(ctx, newRequest("kv-get", map[string]any{"key": key, "as": "int"}))
	require.NoError(t, err)
	assert.Equal(t, "42", resultText(t, res))
}

func TestStore_BadInput(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	res, err := StoreHandler(s)(ctx, newRequest("kv-store", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = StoreHandler(s)(ctx, newRequest("kv-store", map[string]any{"value": "x", "type": "int"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = StoreHandler(s)(ctx, newRequest("kv-store", map[string]any{"value": "x", "type": "blob"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGet_Missing(t *testing.T) {
	s, _ := setup(t)
	res, err := GetHandler(s)(context.Background(), newRequest("kv-get", map[string]any{"key": "nope"}))
	require.NoError(t, err)
	assert.Equal(t, "None", resultText(t, res))
}

func TestReplayAndCount(t *testing.T) {
	ctx := context.Background()
	s, b := setup(t)
	key, err := s.Store(ctx, "foo")
	require.NoError(t, err)

	res, err := ReplayHandler(b)(ctx, newRequest("kv-replay", nil))
	require.NoError(t, err)
	assert.Equal(t, "Cache.store was called 1 time:\nCache.store(*(\"foo\",)) -> "+key+"\n", resultText(t, res))

	res, err = CountHandler(b)(ctx, newRequest("kv-count", map[string]any{"operation": "Cache.store"}))
	require.NoError(t, err)
	assert.Equal(t, "1", resultText(t, res))

	res, err = CountHandler(b)(ctx, newRequest("kv-count", map[string]any{"operation": "Cache.get"}))
	require.NoError(t, err)
	assert.Equal(t, "0", resultText(t, res))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("2.5", "float")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = ParseValue("hi", "")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestLookup_UnknownConversion(t *testing.T) {
	s, _ := setup(t)
	_, err := Lookup(context.Background(), s, "k", "json")
	assert.ErrorContains(t, err, "unknown conversion")
}

func TestGetPage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Hi</h1><script>x()</script></body></html>")
	}))
	defer srv.Close()

	cache, err := ttlcache.New[string](ttlcache.Options{})
	require.NoError(t, err)
	h := GetPageHandler(web.NewFetcher(cache, web.NewCollyGetter(5*time.Second)))
	ctx := context.Background()

	res, err := h(ctx, newRequest("get-page", map[string]any{"url": srv.URL}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "<h1>Hi</h1>")

	res, err = h(ctx, newRequest("get-page", map[string]any{"url": srv.URL, "markdown": true}))
	require.NoError(t, err)
	md := resultText(t, res)
	assert.Contains(t, md, "# Hi")
	assert.NotContains(t, md, "x()")
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetPage_MissingURL(t *testing.T) {
	cache, err := ttlcache.New[string](ttlcache.Options{})
	require.NoError(t, err)
	h := GetPageHandler(web.NewFetcher(cache, web.NewCollyGetter(0)))
	res, err := h(context.Background(), newRequest("get-page", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
