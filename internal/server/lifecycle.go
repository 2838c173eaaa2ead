// Package server runs the game's long-lived services: ordered startup,
// signal-driven shutdown in reverse order.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks for the life of the
// service; Stop asks it to wind down.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

type namedService struct {
	name    string
	service Service
}

// Lifecycle starts registered services in registration order and stops
// them in reverse. The first service error, or SIGINT/SIGTERM, triggers
// shutdown of everything.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

// NewLifecycle creates an empty lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Not safe to call after Run.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every registered service and blocks until a termination
// signal arrives, the context is cancelled, or a service's Start returns
// an error. It then stops all services in reverse order.
//
// Postcondition: every service's Stop has been called when Run returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	started := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			l.logger.Info("service starting", zap.String("service", ns.name))
			began := time.Now()
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service exited",
					zap.String("service", ns.name),
					zap.Duration("uptime", time.Since(began)),
					zap.Error(err),
				)
				failures <- fmt.Errorf("service %s: %w", ns.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("services launched",
		zap.Int("count", len(l.services)),
		zap.Duration("elapsed", time.Since(started)),
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		l.logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
	case err := <-failures:
		l.logger.Error("service failure, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(started)))
	return nil
}

// stopAll stops services newest-first so dependents go down before the
// things they depend on.
func (l *Lifecycle) stopAll() {
	began := time.Now()
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		svcBegan := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcBegan)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("elapsed", time.Since(began)))
}
