package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oggyb/pagecache/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestClient(t)

	require.NoError(t, c.Ping(context.Background()))
}

func TestClient_IncrCreatesAndIncrements(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	n, err := c.Incr(ctx, "count:http://x/a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Incr(ctx, "count:http://x/a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := mr.Get("count:http://x/a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestClient_Expire(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	ok, err := c.Expire(ctx, "missing", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "expire on a missing key should report false")

	_, err = c.Incr(ctx, "k")
	require.NoError(t, err)

	ok, err = c.Expire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, mr.TTL("k"))

	mr.FastForward(11 * time.Second)
	assert.False(t, mr.Exists("k"))
}

func TestClient_GetMissingReturnsErrNotFound(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestClient_SetEXAndGet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetEX(ctx, "http://x/a", "hello", 10*time.Second))

	v, err := c.Get(ctx, "http://x/a")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, 10*time.Second, mr.TTL("http://x/a"))

	require.NoError(t, c.SetEX(ctx, "http://x/a", "world", 10*time.Second))
	v, err = c.Get(ctx, "http://x/a")
	require.NoError(t, err)
	assert.Equal(t, "world", v, "SetEX should overwrite")

	mr.FastForward(10 * time.Second)
	_, err = c.Get(ctx, "http://x/a")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestClient_EmptyValueIsNotMissing(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetEX(ctx, "empty", "", 10*time.Second))

	v, err := c.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestClient_UnreachableServer(t *testing.T) {
	// Nothing listens on port 1, so every call fails to dial.
	c := New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Incr(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrNotFound)
}
