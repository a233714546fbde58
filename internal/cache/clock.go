package cache

import (
	"sync"
	"time"
)

// Clock provides the current time for expiration checks.
// A cache only reads its clock, so one clock may be shared freely.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default clock: wall-clock time in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ManualClock is a clock that only moves when told to.
// It is safe to share between goroutines.
type ManualClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewManualClock creates a ManualClock set to t. A zero t starts the clock
// at 2024-01-01T00:00:00Z.
func NewManualClock(t time.Time) *ManualClock {
	if t.IsZero() {
		t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &ManualClock{current: t}
}

// Now returns the clock's current reading.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set moves the clock to t. Callers that need a non-decreasing clock must not
// set it backwards.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

func millis(c Clock) int64 {
	return c.Now().UnixMilli()
}
