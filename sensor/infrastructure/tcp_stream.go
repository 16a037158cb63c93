package infrastructure

import (
	"context"
	"net"
	"sync"
	"time"

	sensorDomain "github.com/samoilenko/sensorlog/sensor/domain"
)

const (
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 10 * time.Second
)

// TCPStream manages the TCP connection to the collector.
type TCPStream struct {
	mu     sync.RWMutex
	dialer net.Dialer
	addr   sensorDomain.Address
	logger sensorDomain.Logger
	conn   net.Conn

	initialDelay time.Duration
	maxDelay     time.Duration
}

func (s *TCPStream) handleBackoff(ctx context.Context, delay time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

// EstablishNewConnection replaces the current connection with a new one,
// retrying with exponential backoff until it succeeds or ctx is cancelled.
func (s *TCPStream) EstablishNewConnection(ctx context.Context) (net.Conn, error) {
	s.setConn(nil)
	delay := s.initialDelay

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Info("connecting to %s...", s.addr)
		conn, err := s.dialer.DialContext(ctx, "tcp", string(s.addr))
		if err != nil {
			s.logger.Error("got an error on connecting: %s, retrying in %s", err.Error(), delay)
			if !s.handleBackoff(ctx, delay) {
				return nil, ctx.Err()
			}
			delay = min(delay*2, s.maxDelay)
			continue
		}

		s.setConn(conn)
		s.logger.Info("connected to %s", s.addr)
		return conn, nil
	}
}

// IsReady reports whether a connection is established.
func (s *TCPStream) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn != nil
}

// Send writes data to the current connection. The write is abandoned when
// ctx is done.
func (s *TCPStream) Send(ctx context.Context, data []byte) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return sensorDomain.ErrTransportNotReady
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	_, err := conn.Write(data)
	return err
}

// Close closes the current connection, if any.
func (s *TCPStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *TCPStream) setConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil && s.conn != conn {
		_ = s.conn.Close()
	}
	s.conn = conn
}

// NewTCPStream creates a TCPStream dialing addr.
func NewTCPStream(addr sensorDomain.Address, logger sensorDomain.Logger) *TCPStream {
	return &TCPStream{
		addr:         addr,
		logger:       logger,
		initialDelay: initialReconnectDelay,
		maxDelay:     maxReconnectDelay,
	}
}
