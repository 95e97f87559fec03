// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds the time shutdown hooks may take.
const DefaultShutdownTimeout = 10 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	ShutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
	once  sync.Once
}

// New creates a new App.
func New() *App {
	return &App{ShutdownTimeout: DefaultShutdownTimeout}
}

// AddShutdownHook registers a function to call during graceful shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes run until it returns or the process receives SIGINT or
// SIGTERM. Shutdown hooks run exactly once in both cases; after a signal,
// Run also waits for run to return.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	select {
	case <-ctx.Done():
		shutdownErr := a.Shutdown()
		return errors.Join(<-errCh, shutdownErr)
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}
}

// Shutdown runs the registered hooks. Calls after the first are no-ops.
func (a *App) Shutdown() error {
	var err error
	a.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()
		err = a.shutdown(ctx)
	})
	return err
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := make([]func(ctx context.Context) error, len(a.hooks))
	copy(hooks, a.hooks)
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
