package infrastructure

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	sensorDomain "github.com/samoilenko/sensorlog/sensor/domain"
)

// StreamManager defines the contract for managing the connection to the collector.
type StreamManager interface {
	EstablishNewConnection(ctx context.Context) (net.Conn, error)
	Send(ctx context.Context, data []byte) error
	Close() error
}

// FormatLogLine encodes a reading as an ingest message of the collector
// line protocol, terminator included.
func FormatLogLine(value *sensorDomain.SensorValue, sensorName sensorDomain.SensorName) []byte {
	var b strings.Builder
	b.WriteString("LOG|")
	b.WriteString(string(sensorName))
	b.WriteByte('|')
	b.WriteString(value.Timestamp.UTC().Format(time.RFC3339Nano))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(value.Value, 'f', -1, 64))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// TCPStreamSender sends readings to the collector over a TCP connection
// with automatic reconnection.
type TCPStreamSender struct {
	streamManager       StreamManager
	logger              sensorDomain.Logger
	backgroundJobsGroup sync.WaitGroup
	reconnectCh         chan bool
}

// Run manages the connection lifecycle until ctx is cancelled.
func (s *TCPStreamSender) Run(ctx context.Context) {
	defer func() {
		withCancel, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		s.Stop(withCancel)
	}()

	s.triggerReconnect()
	s.streamConnectionManager(ctx)
}

// Stop closes the connection and waits for background jobs to complete.
func (s *TCPStreamSender) Stop(ctx context.Context) {
	s.logger.Info("Closing stream sender...")
	if err := s.streamManager.Close(); err != nil {
		s.logger.Error("error on closing connection: %s", err.Error())
	}

	done := make(chan struct{})
	go func() {
		s.backgroundJobsGroup.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		s.logger.Error("background jobs were not stopped in time")
	case <-done:
		s.logger.Info("background jobs stopped")
	}
}

// streamConnectionManager reconnects whenever a reconnect is triggered and
// watches every new connection for the collector closing it.
func (s *TCPStreamSender) streamConnectionManager(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.reconnectCh:
			s.logger.Info("reconnecting stream...")

			conn, err := s.streamManager.EstablishNewConnection(ctx)
			if err != nil {
				s.logger.Error("error on establishing new connection: %s", err.Error())
				return
			}

			s.backgroundJobsGroup.Add(1)
			go func() {
				defer s.backgroundJobsGroup.Done()
				s.watchConnection(ctx, conn)
			}()
		}
	}
}

// watchConnection drains the connection until it fails and then asks for a
// reconnect. Ingest messages have no replies, so anything read is discarded.
func (s *TCPStreamSender) watchConnection(ctx context.Context, conn net.Conn) {
	_, err := io.Copy(io.Discard, conn)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.logger.Error("connection lost: %s", err.Error())
	} else {
		s.logger.Error("connection closed by collector")
	}
	s.triggerReconnect()
}

// Send transmits a reading to the collector. It returns ErrTransportNotReady
// when the connection is down or the write fails. A failed write closes the
// connection, and its watcher then schedules the reconnect.
func (s *TCPStreamSender) Send(ctx context.Context, value *sensorDomain.SensorValue, sensorName sensorDomain.SensorName) error {
	line := FormatLogLine(value, sensorName)
	s.logger.Info("sending message: %s", strings.TrimSuffix(string(line), "\r\n"))

	if err := s.streamManager.Send(ctx, line); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !errors.Is(err, sensorDomain.ErrTransportNotReady) {
			s.logger.Error("error sending message: %s", err.Error())
			if closeErr := s.streamManager.Close(); closeErr != nil {
				s.logger.Error("error on closing connection: %s", closeErr.Error())
			}
		}

		return sensorDomain.ErrTransportNotReady
	}

	return nil
}

// triggerReconnect signals the stream manager to initiate a reconnection.
func (s *TCPStreamSender) triggerReconnect() {
	select {
	case s.reconnectCh <- true:
	default:
	}
}

// NewTCPStreamSender creates a new TCPStreamSender over streamManager.
func NewTCPStreamSender(streamManager StreamManager, logger sensorDomain.Logger) *TCPStreamSender {
	return &TCPStreamSender{
		logger:        logger,
		streamManager: streamManager,
		reconnectCh:   make(chan bool, 1),
	}
}
