// Package domain provides core business logic for sensor data processing.
package domain

import (
	"context"
	"time"
)

// Sensor is a data source of values
type Sensor interface {
	GetValue() (float64, error)
}

// SensorValue is one reading taken from a sensor.
type SensorValue struct {
	Timestamp time.Time
	Value     float64
}

// ValueReader reads values from a sensor in a given time period
type ValueReader struct {
	logger      Logger
	maxCapacity uint32
	rate        Rate
}

// Read polls sensor at the configured rate until ctx is cancelled, then
// closes the returned channel. Failed and panicking reads are logged and skipped.
func (v *ValueReader) Read(ctx context.Context, sensor Sensor) <-chan *SensorValue {
	valueCH := make(chan *SensorValue, v.maxCapacity)
	delay := time.Second / time.Duration(v.rate)
	ticker := time.NewTicker(delay)

	go func() {
		defer close(valueCH)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				var value float64
				err := SafeFunctionRun(func() (err error) {
					value, err = sensor.GetValue()
					return err
				}, v.logger)
				if err != nil {
					v.logger.Error("error reading sensor value: %s", err.Error())
					continue
				}

				select {
				case <-ctx.Done():
					return
				case valueCH <- &SensorValue{Value: value, Timestamp: now}:
				}
			}
		}
	}()

	return valueCH
}

// NewValueReader creates a ValueReader with the given rate and buffer size
func NewValueReader(rate Rate, maxCapacity uint32, logger Logger) *ValueReader {
	return &ValueReader{
		rate:        rate,
		maxCapacity: maxCapacity,
		logger:      logger,
	}
}
