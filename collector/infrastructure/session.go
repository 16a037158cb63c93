// Package infrastructure provides concrete implementations of domain abstractions.
//
// Key components:
//   - Listener: accepts TCP connections and supervises one Session per connection
//   - Session: reads framed messages from a connection and writes replies
//   - FrameDecoder: splits the byte stream into CRLF terminated messages
//   - SensorLogStore: per-sensor append-only binary logs on an afero filesystem
//   - RateLimiter: limits the bytes a session may submit per second
//   - CommandValidator: rejects commands the store cannot safely persist
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// Session serves the messages of one client connection strictly in
// arrival order.
type Session struct {
	id          uuid.UUID
	conn        net.Conn
	decoder     *FrameDecoder
	handler     *collectorDomain.CommandHandler
	idleTimeout collectorDomain.IdleTimeout
	logger      collectorDomain.Logger
}

// ID returns the session identifier used in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Close closes the underlying connection, which ends Run.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Run reads and dispatches messages until the peer disconnects, the
// connection fails, or ctx is cancelled. The connection is closed when Run
// returns. A clean disconnect or a cancellation returns nil.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()
	defer func() {
		_ = s.conn.Close()
	}()

	for {
		if s.idleTimeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(time.Duration(s.idleTimeout))); err != nil {
				return fmt.Errorf("error on setting read deadline: %w", err)
			}
		}

		message, err := s.decoder.Next()
		if err != nil {
			return s.readError(ctx, err)
		}

		s.logger.Info("session %s received: %s", s.id, message)

		var reply string
		err = collectorDomain.SafeFunctionRun(func() error {
			reply = s.handler.Handle(ctx, message)
			return nil
		}, s.logger)
		if err != nil {
			return fmt.Errorf("error on handling message: %w", err)
		}

		if reply == "" {
			continue
		}
		if _, err := io.WriteString(s.conn, reply); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("error on sending reply: %w", err)
		}
	}
}

func (s *Session) readError(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		s.logger.Info("session %s: client closed connection", s.id)
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("idle for more than %s: %w", time.Duration(s.idleTimeout), err)
	}
	return fmt.Errorf("error on reading message: %w", err)
}

// NewSession creates a Session serving conn with its own handler.
func NewSession(
	id uuid.UUID,
	conn net.Conn,
	handler *collectorDomain.CommandHandler,
	maxFrameSize collectorDomain.MaxFrameSize,
	idleTimeout collectorDomain.IdleTimeout,
	logger collectorDomain.Logger,
) *Session {
	return &Session{
		id:          id,
		conn:        conn,
		decoder:     NewFrameDecoder(conn, maxFrameSize),
		handler:     handler,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}
