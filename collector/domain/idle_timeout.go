package domain

import (
	"errors"
	"time"
)

// IdleTimeout is how long a session may wait for its next message before
// the connection is closed. Zero disables the timeout.
type IdleTimeout time.Duration

// NewIdleTimeout creates a new IdleTimeout, rejecting negative durations.
func NewIdleTimeout(val time.Duration) (IdleTimeout, error) {
	if val < 0 {
		return 0, errors.New("idle timeout must not be negative")
	}
	return IdleTimeout(val), nil
}
