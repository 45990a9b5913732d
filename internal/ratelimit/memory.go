package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultSweepThreshold = 10000

// MemoryStore keeps windows in process memory. Counters are not shared
// between processes; use RedisStore for multi-instance deployments.
type MemoryStore struct {
	mu             sync.Mutex
	windows        map[string]*window
	now            func() time.Time
	sweepThreshold int
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows:        make(map[string]*window),
		now:            time.Now,
		sweepThreshold: defaultSweepThreshold,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// CheckAndIncrement implements Store.
func (s *MemoryStore) CheckAndIncrement(_ context.Context, key string, length time.Duration, max int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		if !ok && len(s.windows) >= s.sweepThreshold {
			s.sweepLocked(now)
		}
		w = &window{count: 0, resetAt: now.Add(length)}
		s.windows[key] = w
	}

	if w.count >= max {
		return false, nil
	}
	w.count++
	return true, nil
}

// Len returns the number of tracked windows, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// sweepLocked drops expired windows. Runs inline when the table grows past
// the threshold instead of on a background ticker.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
	if len(s.windows) >= s.sweepThreshold {
		s.sweepThreshold = len(s.windows) * 2
	}
}
