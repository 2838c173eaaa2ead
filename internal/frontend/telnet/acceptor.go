package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/config"
)

// SessionHandler runs the interactive session for one connected player.
// It returns when the player disconnects or the context is cancelled.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor owns the TCP listener: it negotiates Telnet options on each new
// connection and hands the session to the handler on its own goroutine.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	listener net.Listener
	sessions sync.WaitGroup
	active   atomic.Int64
	quit     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewAcceptor creates an acceptor; it does not listen until ListenAndServe.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		quit:    make(chan struct{}),
	}
}

// ListenAndServe binds the configured address and accepts connections
// until Stop is called. It blocks for the life of the listener.
//
// Precondition: the acceptor must not already be running.
// Postcondition: the listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	a.listener = listener
	a.running = true
	a.mu.Unlock()

	a.logger.Info("telnet listener open", zap.String("addr", listener.Addr().String()))

	for {
		raw, err := listener.Accept()
		if err != nil {
			select {
			case <-a.quit:
				return nil
			default:
				a.logger.Error("accept failed", zap.Error(err))
				continue
			}
		}

		a.sessions.Add(1)
		go a.serve(raw)
	}
}

// serve runs one player session from Telnet negotiation to disconnect.
func (a *Acceptor) serve(raw net.Conn) {
	defer a.sessions.Done()
	began := time.Now()
	remote := raw.RemoteAddr().String()

	count := a.active.Add(1)
	defer a.active.Add(-1)
	a.logger.Info("player connected",
		zap.String("remote_addr", remote),
		zap.Int64("active", count),
	)

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed",
			zap.String("remote_addr", remote),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A server shutdown ends every in-flight session.
	go func() {
		select {
		case <-a.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := a.handler.HandleSession(ctx, conn)
	fields := []zap.Field{
		zap.String("remote_addr", remote),
		zap.Duration("duration", time.Since(began)),
	}
	if err != nil {
		a.logger.Debug("session ended with error", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Info("session ended", fields...)
}

// Stop closes the listener and waits for every active session to finish.
//
// Postcondition: all session goroutines have exited.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false

	close(a.quit)
	if a.listener != nil {
		a.listener.Close()
	}
	a.sessions.Wait()

	a.logger.Info("telnet listener closed")
}

// Addr returns the bound listen address, or "" before ListenAndServe.
// With port 0 in the config this is the only way to learn the real port.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning reports whether the acceptor is accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ActiveSessions returns the number of sessions currently in flight.
func (a *Acceptor) ActiveSessions() int64 {
	return a.active.Load()
}
