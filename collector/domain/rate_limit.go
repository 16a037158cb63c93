package domain

import "errors"

// RateLimit represents the maximum allowed input flow rate of a session in
// bytes per second. Zero means unlimited.
type RateLimit uint32

// NewRateLimit creates a new RateLimit, rejecting negative limits.
func NewRateLimit(val int) (RateLimit, error) {
	if val < 0 {
		return 0, errors.New("rate limit must not be negative")
	}
	return RateLimit(val), nil
}

// Enabled reports whether the limit should be enforced.
func (r RateLimit) Enabled() bool {
	return r > 0
}
