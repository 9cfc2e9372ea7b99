package core

import (
	"sync"
	"time"
)

// TimeProvider provides the current time and can be fixed in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using the system clock in UTC.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider implements TimeProvider with a settable time for testing.
type FixedTimeProvider struct {
	mu        sync.Mutex
	fixedTime time.Time
}

// NewFixedTimeProvider creates a new FixedTimeProvider with the given time.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fixedTime
}

// Advance moves the fixed time forward by d.
func (f *FixedTimeProvider) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixedTime = f.fixedTime.Add(d)
}
