package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oggyb/pagecache/internal/cache"
)

// fakeFetcher returns scripted bodies in order and counts calls.
// Once the script runs out it keeps returning the last entry.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies []string
	errs   []error
	calls  int32
	urls   []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	n := int(atomic.AddInt32(&f.calls, 1)) - 1

	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)

	var err error
	if len(f.errs) > 0 {
		err = f.errs[min(n, len(f.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(f.bodies) == 0 {
		return "", nil
	}
	return f.bodies[min(n, len(f.bodies)-1)], nil
}

func (f *fakeFetcher) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

// recordingStore wraps a cache.Store, records every call and lets tests
// inject a failure for a single operation.
type recordingStore struct {
	inner cache.Store

	mu     sync.Mutex
	ops    []string
	failOn string
	err    error
}

func (s *recordingStore) record(op, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, fmt.Sprintf("%s %s", op, key))
	if op == s.failOn {
		return s.err
	}
	return nil
}

func (s *recordingStore) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *recordingStore) Ping(ctx context.Context) error {
	if err := s.record("ping", ""); err != nil {
		return err
	}
	return s.inner.Ping(ctx)
}

func (s *recordingStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := s.record("incr", key); err != nil {
		return 0, err
	}
	return s.inner.Incr(ctx, key)
}

func (s *recordingStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := s.record("expire", key); err != nil {
		return false, err
	}
	return s.inner.Expire(ctx, key, ttl)
}

func (s *recordingStore) Get(ctx context.Context, key string) (string, error) {
	if err := s.record("get", key); err != nil {
		return "", err
	}
	return s.inner.Get(ctx, key)
}

func (s *recordingStore) SetEX(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.record("setex", key); err != nil {
		return err
	}
	return s.inner.SetEX(ctx, key, value, ttl)
}

func (s *recordingStore) Close() error {
	return s.inner.Close()
}

var _ cache.Store = (*recordingStore)(nil)
