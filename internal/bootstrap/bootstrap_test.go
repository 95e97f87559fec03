package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New()
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run returns error and hooks still run", func(t *testing.T) {
		app := New()
		hookCalled := false
		app.AddShutdownHook(func(ctx context.Context) error {
			hookCalled = true
			return nil
		})
		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.True(t, hookCalled)
	})

	t.Run("shutdown hooks run in LIFO order on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("run is awaited after cancel", func(t *testing.T) {
		app := New()
		stopped := make(chan struct{})
		app.AddShutdownHook(func(ctx context.Context) error {
			close(stopped)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		returned := false
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-stopped
			returned = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, returned)
	})

	t.Run("hook errors are joined", func(t *testing.T) {
		app := New()
		errA := errors.New("a")
		errB := errors.New("b")
		app.AddShutdownHook(func(ctx context.Context) error { return errA })
		app.AddShutdownHook(func(ctx context.Context) error { return errB })

		err := app.Run(context.Background(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("hooks receive a deadline", func(t *testing.T) {
		app := New()
		app.ShutdownTimeout = time.Second
		var deadline time.Time
		app.AddShutdownHook(func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		})
		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error { return nil }))
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
	})
}

func TestApp_Shutdown_RunsOnce(t *testing.T) {
	app := New()
	calls := 0
	app.AddShutdownHook(func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, app.Shutdown())
	require.NoError(t, app.Shutdown())
	assert.Equal(t, 1, calls)
}
