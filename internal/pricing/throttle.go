package pricing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"navtracker/internal/metrics"
)

// DefaultMinInterval is the minimum spacing between outbound price requests.
const DefaultMinInterval = 2000 * time.Millisecond

// Throttle serializes callers so that successive Wait calls return at least
// minInterval apart. One Throttle is shared by every user of an adapter.
type Throttle struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	clock    Clock
	interval time.Duration
	metrics  *metrics.Metrics
}

// NewThrottle creates a throttle allowing one event per minInterval.
// A nil clock uses the system clock.
func NewThrottle(minInterval time.Duration, clock Clock, m *metrics.Metrics) *Throttle {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Throttle{
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		clock:    clock,
		interval: minInterval,
		metrics:  m,
	}
}

// Interval returns the configured minimum spacing.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Wait blocks until the caller may issue its request. If ctx ends first the
// reserved slot is handed back and ctx's error is returned.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := t.clock.Now()
	r := t.limiter.ReserveN(now, 1)
	t.mu.Unlock()

	delay := r.DelayFrom(now)
	t.metrics.ObserveThrottleWait(delay)
	if delay <= 0 {
		return nil
	}
	if err := t.clock.Sleep(ctx, delay); err != nil {
		t.mu.Lock()
		r.CancelAt(t.clock.Now())
		t.mu.Unlock()
		return err
	}
	return nil
}
