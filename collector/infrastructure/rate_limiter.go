package infrastructure

import (
	"sync"
	"time"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// RateLimiter implements a fixed window rate limiter for protocol commands.
// It limits the total wire size of commands accepted within a time window.
type RateLimiter struct {
	last       time.Time
	mu         sync.Mutex
	timeWindow time.Duration
	maxLimit   collectorDomain.RateLimit
	limit      int
}

// Apply checks whether the command fits in the current window.
//
// The rate limiter uses a fixed window approach:
// - If the window has elapsed since the last reset, it starts a new window
// - Otherwise, it accumulates the command size and checks against the limit
// - Commands exceeding the limit are rejected with a RateLimitError
func (r *RateLimiter) Apply(cmd *collectorDomain.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	elapsed := now.Sub(r.last)
	size := cmd.Size()
	if elapsed >= r.timeWindow {
		r.last = now
		r.limit = size

		return nil
	}

	r.limit += size
	if r.limit > int(r.maxLimit) {
		return &collectorDomain.RateLimitError{
			Message: "rate limit exceeded",
			Delay:   r.timeWindow - elapsed,
		}
	}

	return nil
}

// NewRateLimiter creates a new rate limiter instance with the specified maximum limit.
func NewRateLimiter(maxLimit collectorDomain.RateLimit, timeWindow time.Duration) *RateLimiter {
	return &RateLimiter{
		maxLimit:   maxLimit,
		timeWindow: timeWindow,
	}
}
