// Package ratelimit implements fixed-window request counting per client key.
//
// A Store owns the counters; a Limiter binds a Store to one Policy. Policies
// namespace their keys, so two limiters sharing a Store never consume each
// other's quota.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store performs the atomic check-and-increment for one key.
//
// If no window exists for key, or the window has expired, a fresh window of
// the given length starts with a count of zero. If the count has reached max
// the call returns false without incrementing; otherwise the count is
// incremented and the call returns true.
type Store interface {
	CheckAndIncrement(ctx context.Context, key string, window time.Duration, max int) (bool, error)
}

// Policy is a named fixed-window limit.
type Policy struct {
	Name   string
	Window time.Duration
	Max    int
}

// ContactPolicy limits contact form submissions.
var ContactPolicy = Policy{Name: "contact", Window: 15 * time.Minute, Max: 3}

// QuotePolicy limits quote request submissions.
var QuotePolicy = Policy{Name: "quote", Window: 30 * time.Minute, Max: 2}

// Limiter applies a Policy against a Store.
type Limiter struct {
	store  Store
	policy Policy
}

// NewLimiter creates a limiter for policy backed by store.
func NewLimiter(store Store, policy Policy) *Limiter {
	if store == nil {
		panic("ratelimit: store required")
	}
	return &Limiter{store: store, policy: policy}
}

// Allow counts one request from clientID and reports whether it is within
// the policy.
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, error) {
	allowed, err := l.store.CheckAndIncrement(ctx, l.key(clientID), l.policy.Window, l.policy.Max)
	if err != nil {
		return false, fmt.Errorf("ratelimit: %s check: %w", l.policy.Name, err)
	}
	return allowed, nil
}

// Policy returns the limiter's policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

func (l *Limiter) key(clientID string) string {
	return "ratelimit:" + l.policy.Name + ":" + clientID
}
