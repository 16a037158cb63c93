package domain

import "errors"

// MaxConnections caps the number of concurrently served sessions. Zero means unlimited.
type MaxConnections uint32

// NewMaxConnections creates a new MaxConnections value.
func NewMaxConnections(val int) (MaxConnections, error) {
	if val < 0 {
		return 0, errors.New("max connections must not be negative")
	}
	return MaxConnections(val), nil
}
