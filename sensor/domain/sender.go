package domain

import (
	"context"
	"errors"
	"time"
)

// transportRetryDelay is how long the sender pauses after the transport
// reports it is not ready.
const transportRetryDelay = time.Second

// Transport defines the contract for sending data to external systems.
type Transport interface {
	// Send transfers sensor data.
	Send(ctx context.Context, value *SensorValue, sensorName SensorName) error
}

// SensorDataSender handles the transmission of sensor data using a configured transport.
type SensorDataSender struct {
	transport  Transport
	sensorName SensorName
	logger     Logger
	retryDelay time.Duration
}

// Send processes sensor values from the channel and transmits them using the configured transport.
// It waits and moves on to the next value when the transport is not ready.
// The method blocks until the context is cancelled or the input channel is closed.
func (s *SensorDataSender) Send(ctx context.Context, values <-chan *SensorValue) {
	for v := range values {
		err := s.transport.Send(ctx, v, s.sensorName)
		if err == nil {
			continue
		}

		if errors.Is(err, ErrTransportNotReady) {
			s.logger.Error("get transport error: %s", err.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryDelay):
			}
		} else {
			s.logger.Error("error sending data: %s", err.Error())
		}
	}
}

// NewSensorDataSender creates a new SensorDataSender with the specified transport, logger, and sensor name.
func NewSensorDataSender(transport Transport, logger Logger, sensorName SensorName) *SensorDataSender {
	return &SensorDataSender{
		transport:  transport,
		sensorName: sensorName,
		logger:     logger,
		retryDelay: transportRetryDelay,
	}
}
