package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/oggyb/pagecache/internal/cache"
	"github.com/oggyb/pagecache/internal/fetch"
)

const (
	// DefaultCacheTTL is how long a fetched page body stays cached.
	DefaultCacheTTL = 10 * time.Second

	// DefaultCountTTL is the sliding window of the per-URL access counter.
	// It is reset on every GetPage call.
	DefaultCountTTL = 10 * time.Second
)

// ErrStoreUnavailable wraps every failure of the key/value store.
var ErrStoreUnavailable = errors.New("store unavailable")

// PageService returns page bodies through a short-lived cache and counts
// how often each URL is requested.
type PageService interface {
	// GetPage returns the body for url, from cache or freshly fetched.
	// Fetch failures are returned unmodified; store failures wrap
	// ErrStoreUnavailable.
	GetPage(ctx context.Context, url string) (string, error)

	// AccessCount returns the current access counter for url without
	// touching it. An absent counter reads as 0.
	AccessCount(ctx context.Context, url string) (int64, error)
}

type pageService struct {
	store    cache.Store
	fetcher  fetch.Client
	cacheTTL time.Duration
	countTTL time.Duration
}

// PageOption customises a PageService.
type PageOption func(*pageService)

// WithCacheTTL overrides the page body TTL. Values <= 0 keep the default.
func WithCacheTTL(d time.Duration) PageOption {
	return func(s *pageService) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}

// WithCountTTL overrides the access counter TTL. Values <= 0 keep the default.
func WithCountTTL(d time.Duration) PageOption {
	return func(s *pageService) {
		if d > 0 {
			s.countTTL = d
		}
	}
}

// NewPageService wraps fetcher with a cache and an access counter kept in store.
// The store handle is owned by the caller and shared across calls.
func NewPageService(store cache.Store, fetcher fetch.Client, opts ...PageOption) PageService {
	s := &pageService{
		store:    store,
		fetcher:  fetcher,
		cacheTTL: DefaultCacheTTL,
		countTTL: DefaultCountTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPage runs four independent store calls: INCR and EXPIRE on the
// counter, then GET and (on a miss) SETEX on the body. The sequence is
// not atomic; concurrent misses on a cold URL may each call the fetcher.
func (s *pageService) GetPage(ctx context.Context, url string) (string, error) {
	countKey := cache.AccessCount.Key(url)
	pageKey := cache.PageKey(url)

	count, err := s.store.Incr(ctx, countKey)
	if err != nil {
		return "", storeErr("incr", countKey, err)
	}

	if _, err := s.store.Expire(ctx, countKey, s.countTTL); err != nil {
		return "", storeErr("expire", countKey, err)
	}

	logger := log.WithFields(log.Fields{
		"component": "page",
		"url":       url,
		"count":     count,
	})

	body, err := s.store.Get(ctx, pageKey)
	switch {
	case err == nil:
		logger.WithField("result", "hit").Debug("page lookup")
		return body, nil
	case !errors.Is(err, cache.ErrNotFound):
		return "", storeErr("get", pageKey, err)
	}

	logger.WithField("result", "miss").Debug("page lookup")

	// The counter increment above stands even if the fetch fails.
	body, err = s.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.WithError(err).Warn("fetch failed")
		return "", err
	}

	if err := s.store.SetEX(ctx, pageKey, body, s.cacheTTL); err != nil {
		return "", storeErr("setex", pageKey, err)
	}

	return body, nil
}

func (s *pageService) AccessCount(ctx context.Context, url string) (int64, error) {
	key := cache.AccessCount.Key(url)

	v, err := s.store.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("get", key, err)
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("access count %s is not an integer: %w", key, err)
	}
	return n, nil
}

func storeErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, op, key, err)
}
