// Package infrastructure provides concrete implementation of sensor domain entities.
package infrastructure

import "math/rand/v2"

// DummySensor is a sensor implementation that generates random readings
type DummySensor struct {
}

// GetValue returns a random reading between 0.0 and 99.9 with one decimal
func (d DummySensor) GetValue() (float64, error) {
	return float64(rand.IntN(1000)) / 10, nil
}
