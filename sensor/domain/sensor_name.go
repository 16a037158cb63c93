package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SensorName - the name of the sensor to use. It is sent as the sensor id of
// every ingested reading.
type SensorName string

// NewSensorName validates the given string and returns it as a SensorName.
// The name must be non-empty and must not contain the protocol separators
// or path separators.
func NewSensorName(name string) (SensorName, error) {
	if name == "" {
		return "", errors.New("sensor name cannot be empty")
	}
	if strings.ContainsAny(name, "|\r\n/\\") {
		return "", fmt.Errorf("sensor name contains a forbidden character: %q", name)
	}

	return SensorName(name), nil
}
