package ratelimit

import (
	"sync"
	"time"
)

// MinuteCounter caps calls per operation within a wall-clock minute.
// Buckets reset at minute boundaries and are local to the process.
type MinuteCounter struct {
	mu      sync.Mutex
	buckets map[bucketKey]int
	now     func() time.Time
}

type bucketKey struct {
	op     string
	minute int64
}

func NewMinuteCounter() *MinuteCounter {
	return &MinuteCounter{buckets: map[bucketKey]int{}, now: time.Now}
}

// Allow records one call for op and reports whether it stays within limit.
// A non-positive limit disables the check.
func (m *MinuteCounter) Allow(op string, limit int) bool {
	if limit <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	minute := m.now().Unix() / 60
	m.pruneLocked(minute)

	key := bucketKey{op: op, minute: minute}
	if m.buckets[key] >= limit {
		return false
	}
	m.buckets[key]++
	return true
}

// Count returns the calls recorded for op in the current minute.
func (m *MinuteCounter) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buckets[bucketKey{op: op, minute: m.now().Unix() / 60}]
}

func (m *MinuteCounter) pruneLocked(current int64) {
	for k := range m.buckets {
		if current-k.minute >= 2 {
			delete(m.buckets, k)
		}
	}
}
