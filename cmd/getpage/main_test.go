package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/oggyb/pagecache/internal/config"
	"github.com/oggyb/pagecache/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()
	t.Setenv("REDIS_ADDR", redisAddr)
	t.Setenv("FETCH_RATE_LIMIT", "5")
	t.Setenv("FETCH_RATE_BURST", "2")
	return config.New()
}

func TestRun_PrintsBodyAndCount(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html>cli</html>"))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr.Addr())

	for i := 1; i <= 2; i++ {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), cfg, server.URL, true, &stdout, &stderr)
		require.NoError(t, err)

		assert.Equal(t, "<html>cli</html>", stdout.String())
		assert.Equal(t, fmt.Sprintf("count:%s = %d\n", server.URL, i), stderr.String())
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second run is served from cache")
	assert.True(t, mr.Exists(server.URL))
}

func TestRun_WithoutCountFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr.Addr())

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, server.URL, false, &stdout, &stderr))

	assert.Equal(t, "body", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_FetchErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr.Addr())

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), cfg, server.URL, true, &stdout, &stderr)

	assert.ErrorIs(t, err, fetch.ErrUnexpectedStatus)
	assert.Empty(t, stdout.String())
	assert.False(t, mr.Exists(server.URL))
}
