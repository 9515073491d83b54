package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/oggyb/pagecache/internal/cache"
)

// HealthStatus is the outcome of the most recent store probe.
type HealthStatus struct {
	Healthy   bool
	CheckedAt time.Time
	Err       string
}

// HealthProbe pings the store each time the scheduler ticks and remembers
// the last result so the health endpoint can answer without a round-trip.
type HealthProbe struct {
	store cache.Store

	mu     sync.RWMutex
	status HealthStatus
}

// NewHealthProbe returns a probe for store. Until the first probe runs
// it reports healthy.
func NewHealthProbe(store cache.Store) *HealthProbe {
	return &HealthProbe{
		store:  store,
		status: HealthStatus{Healthy: true},
	}
}

// ProcessBatch pings the store once and records the outcome.
// It satisfies scheduler.BatchProcessor.
func (p *HealthProbe) ProcessBatch(ctx context.Context) error {
	err := p.store.Ping(ctx)

	st := HealthStatus{Healthy: err == nil, CheckedAt: time.Now()}
	if err != nil {
		st.Err = err.Error()
		log.WithField("component", "health").WithError(err).Warn("store ping failed")
	}

	p.mu.Lock()
	p.status = st
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Status returns the last recorded probe result.
func (p *HealthProbe) Status() HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
