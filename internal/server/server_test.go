package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/oggyb/pagecache/internal/cache/redis"
	"github.com/oggyb/pagecache/internal/fetch"
	"github.com/oggyb/pagecache/internal/handler"
	"github.com/oggyb/pagecache/internal/middleware"
	routes "github.com/oggyb/pagecache/internal/router"
	"github.com/oggyb/pagecache/internal/scheduler"
	"github.com/oggyb/pagecache/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, fetcher fetch.Client) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := redis.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })

	probe := service.NewHealthProbe(store)
	cron := scheduler.NewSchedulerService("test", probe, 0, 0)

	deps := routes.AppDeps{
		Home:      handler.NewHomeHandler(probe, cron),
		Page:      handler.NewPageHandler(service.NewPageService(store, fetcher)),
		Scheduler: handler.NewSchedulerHandler(cron),
	}
	return Handler(deps), mr
}

func TestHandler_PagesThroughCache(t *testing.T) {
	calls := 0
	fetcher := fetch.Func(func(ctx context.Context, url string) (string, error) {
		calls++
		return "body of " + url, nil
	})
	h, mr := newTestHandler(t, fetcher)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages?url=http://example.com", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "body of http://example.com")
	}

	assert.Equal(t, 1, calls)

	count, err := mr.Get("count:http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/count?url=http://example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestHandler_SetsRequestID(t *testing.T) {
	h, _ := newTestHandler(t, fetch.Func(func(context.Context, string) (string, error) { return "", nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestHandler_UnknownRoute(t *testing.T) {
	h, _ := newTestHandler(t, fetch.Func(func(context.Context, string) (string, error) { return "", nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}

func TestHandler_HealthIsStaleAfterSchedulerStop(t *testing.T) {
	h, _ := newTestHandler(t, fetch.Func(func(context.Context, string) (string, error) { return "", nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scheduler", strings.NewReader(`{"action":"start"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scheduler", strings.NewReader(`{"action":"stop"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"stale"`)
	assert.Contains(t, rec.Body.String(), `"probing":false`)
}
