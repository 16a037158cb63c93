package domain

import "errors"

// Rate is the number of readings taken per second.
type Rate uint32

// NewRate validates the given number and returns it as a Rate.
func NewRate(rate int) (Rate, error) {
	if rate <= 0 {
		return 0, errors.New("rate must be greater than 0")
	}
	return Rate(rate), nil
}
