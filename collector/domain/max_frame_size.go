package domain

import "errors"

// MaxFrameSize represents the largest message, in bytes, a session buffers
// while waiting for a frame terminator.
type MaxFrameSize uint32

// NewMaxFrameSize creates a new MaxFrameSize instance.
func NewMaxFrameSize(size int) (MaxFrameSize, error) {
	if size <= 0 {
		return 0, errors.New("max frame size must be greater than 0")
	}

	return MaxFrameSize(size), nil
}
