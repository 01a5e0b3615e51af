package data

import (
	"sync"
	"time"
)

// TimeProvider abstracts the clock so repository queries that compare
// against now (lease expiry, retention cutoffs, retry scheduling) can be
// driven deterministically in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock.
type RealTimeProvider struct{}

func (*RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider is a settable clock for tests. Safe for concurrent
// use; tests advance it while repository calls read it.
type FixedTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedTimeProvider pins the clock to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: t}
}

func (f *FixedTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// SetTime moves the clock to t.
func (f *FixedTimeProvider) SetTime(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// AddTime moves the clock forward by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
