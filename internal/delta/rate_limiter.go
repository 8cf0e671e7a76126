package delta

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding-window request limiter shared by all REST calls.
type RateLimiter struct {
	mu       sync.Mutex
	requests []time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter allows limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make([]time.Time, 0, limit),
		limit:    limit,
		window:   window,
	}
}

// Allow records and permits a request if the window has capacity.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	recent := r.requests[:0]
	for _, t := range r.requests {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	r.requests = recent

	if len(r.requests) >= r.limit {
		return false
	}
	r.requests = append(r.requests, now)
	return true
}

// Wait blocks until a slot opens or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) {
	for !r.Allow() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
