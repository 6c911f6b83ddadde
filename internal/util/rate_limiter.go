// Package util holds small helpers shared by the guide and provider clients.
package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a simple sliding window rate limiter.
type RateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter. A non-positive maxRequests
// disables limiting.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, max(maxRequests, 0)),
		now:         time.Now,
	}
}

// Wait blocks until a request can be made within the window or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil || r.maxRequests <= 0 {
		return ctx.Err()
	}

	for {
		r.mu.Lock()
		now := r.now()
		r.prune(now)

		if len(r.requests) < r.maxRequests {
			r.requests = append(r.requests, now)
			r.mu.Unlock()
			return nil
		}

		// Sleep until the oldest request leaves the window
		waitTime := r.window - now.Sub(r.requests[0]) + 10*time.Millisecond
		r.mu.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune drops requests that fell out of the window. Caller holds mu.
func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid
}
