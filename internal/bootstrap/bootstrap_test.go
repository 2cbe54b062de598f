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
		app := New(time.Second)
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run returns error and hooks still run", func(t *testing.T) {
		app := New(time.Second)
		closed := false
		app.AddCloser("loader", func() error {
			closed = true
			return nil
		})

		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.True(t, closed)
	})

	t.Run("hooks run in LIFO order on context cancel", func(t *testing.T) {
		app := New(time.Second)
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-release
			return nil
		})
		close(release)
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hook registered from inside run callback", func(t *testing.T) {
		app := New(time.Second)
		hookCalled := false

		err := app.Run(context.Background(), func(ctx context.Context) error {
			app.AddShutdownHook("server", func(ctx context.Context) error {
				hookCalled = true
				return nil
			})
			return nil
		})
		require.NoError(t, err)
		assert.True(t, hookCalled)
	})

	t.Run("hook errors are named and joined", func(t *testing.T) {
		app := New(time.Second)
		app.AddCloser("database", func() error { return errors.New("already closed") })
		app.AddShutdownHook("server", func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database > already closed")
	})
}
