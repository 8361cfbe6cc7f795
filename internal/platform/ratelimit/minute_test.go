package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMinuteCounterCapsPerOperation(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	m := NewMinuteCounter()
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, m.Allow("learning_path", 3))
	}
	require.False(t, m.Allow("learning_path", 3))
	require.True(t, m.Allow("embeddings", 3), "operations are counted independently")
	require.Equal(t, 3, m.Count("learning_path"))

	now = now.Add(time.Minute)
	require.True(t, m.Allow("learning_path", 3), "a new minute starts a new bucket")
}

func TestMinuteCounterPrunesOldBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMinuteCounter()
	m.now = func() time.Time { return now }

	m.Allow("recommendations", 10)
	now = now.Add(3 * time.Minute)
	m.Allow("recommendations", 10)

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.buckets, 1)
}

func TestMinuteCounterDisabledLimit(t *testing.T) {
	m := NewMinuteCounter()
	for i := 0; i < 100; i++ {
		require.True(t, m.Allow("x", 0))
	}
}

func TestMinuteCounterConcurrent(t *testing.T) {
	m := NewMinuteCounter()
	fixed := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Allow("embeddings", 20) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 20, allowed)
}
