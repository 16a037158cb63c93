package infrastructure

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

const (
	acceptRetryInitialDelay = 5 * time.Millisecond
	acceptRetryMaxDelay     = 1 * time.Second
)

// HandlerFactory builds the command handler of a new session.
type HandlerFactory func() *collectorDomain.CommandHandler

// ListenerConfig holds the settings the listener applies to every session.
type ListenerConfig struct {
	BindAddress    collectorDomain.BindAddress
	MaxConnections collectorDomain.MaxConnections
	MaxFrameSize   collectorDomain.MaxFrameSize
	IdleTimeout    collectorDomain.IdleTimeout
}

// Listener accepts client connections and supervises their sessions.
// It keeps every live session in a registry and drops it when the session
// ends.
type Listener struct {
	config     ListenerConfig
	newHandler HandlerFactory
	logger     collectorDomain.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	wg       sync.WaitGroup
}

// ListenAndServe binds the configured address and serves it until ctx is cancelled.
func (l *Listener) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", string(l.config.BindAddress))
	if err != nil {
		return err
	}

	return l.Serve(ctx, ln)
}

// Serve accepts connections from ln, running each session in its own
// goroutine. When ctx is cancelled it closes ln and all sessions and returns
// once every session has ended.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	if l.config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, int(l.config.MaxConnections))
	}

	l.logger.Info("listening on %s", ln.Addr())

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()
	defer l.wg.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("listener stopped, closing %d sessions", l.ActiveSessions())
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				l.closeSessions()
				return err
			}

			delay = nextAcceptDelay(delay)
			l.logger.Error("error on accepting connection: %s, retrying in %s", err.Error(), delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		delay = 0
		l.spawn(ctx, conn)
	}
}

// ActiveSessions returns the number of sessions currently served.
func (l *Listener) ActiveSessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Listener) spawn(ctx context.Context, conn net.Conn) {
	session := NewSession(
		uuid.New(),
		conn,
		l.newHandler(),
		l.config.MaxFrameSize,
		l.config.IdleTimeout,
		l.logger,
	)

	l.mu.Lock()
	l.sessions[session.ID()] = session
	l.mu.Unlock()

	l.logger.Info("session %s opened from %s", session.ID(), conn.RemoteAddr())

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.remove(session.ID())

		if err := session.Run(ctx); err != nil {
			l.logger.Error("session %s: %s", session.ID(), err.Error())
		}
		l.logger.Info("session %s closed", session.ID())
	}()
}

func (l *Listener) closeSessions() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, session := range l.sessions {
		_ = session.Close()
	}
}

func (l *Listener) remove(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, id)
}

func nextAcceptDelay(delay time.Duration) time.Duration {
	if delay == 0 {
		return acceptRetryInitialDelay
	}
	delay *= 2
	if delay > acceptRetryMaxDelay {
		return acceptRetryMaxDelay
	}
	return delay
}

// NewListener creates a Listener. newHandler is called once per accepted
// connection so stateful interceptors are never shared between sessions.
func NewListener(config ListenerConfig, newHandler HandlerFactory, logger collectorDomain.Logger) *Listener {
	return &Listener{
		config:     config,
		newHandler: newHandler,
		logger:     logger,
		sessions:   make(map[uuid.UUID]*Session),
	}
}
