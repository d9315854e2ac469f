package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEngine() *Engine {
	return New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// start runs e in the background and stops it when the test ends.
func start(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = e.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestEngine_DoReturnsResult(t *testing.T) {
	e := quietEngine()
	start(t, e)

	var got int64
	err := e.Do(context.Background(), "stamp", func(_ context.Context, seq int64) error {
		got = seq
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	boom := errors.New("boom")
	err = e.Do(context.Background(), "fail", func(context.Context, int64) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestEngine_RunsInSubmissionOrder(t *testing.T) {
	e := quietEngine()

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		require.True(t, e.Submit(name, func(context.Context, int64) error {
			order = append(order, name)
			return nil
		}))
	}
	start(t, e)

	require.NoError(t, e.Do(context.Background(), "sync", func(context.Context, int64) error { return nil }))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, int64(4), e.Clock().Current())
}

func TestEngine_SerialisesConcurrentCallers(t *testing.T) {
	e := quietEngine()
	start(t, e)

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(context.Background(), "inc", func(context.Context, int64) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	var final int
	require.NoError(t, e.Do(context.Background(), "read", func(context.Context, int64) error {
		final = counter
		return nil
	}))
	assert.Equal(t, 50, final)
}

func TestEngine_PanicIsRecovered(t *testing.T) {
	e := quietEngine()
	start(t, e)

	err := e.Do(context.Background(), "explode", func(context.Context, int64) error {
		panic("kaboom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode: panic: kaboom")

	assert.NoError(t, e.Do(context.Background(), "after", func(context.Context, int64) error { return nil }))
}

func TestEngine_StopDrainsQueue(t *testing.T) {
	e := quietEngine()

	ran := 0
	e.Submit("one", func(context.Context, int64) error { ran++; return nil })
	e.Submit("two", func(context.Context, int64) error { ran++; return nil })
	e.Stop()

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 2, ran)

	assert.False(t, e.Submit("late", func(context.Context, int64) error { return nil }))
	err := e.Do(context.Background(), "late", func(context.Context, int64) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestEngine_QueuedTasksRunBeforeCancellation(t *testing.T) {
	e := quietEngine()
	ran := false
	e.Submit("queued", func(context.Context, int64) error { ran = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, ran)
	assert.False(t, e.Submit("late", func(context.Context, int64) error { return nil }))
}

func TestEngine_DoHonoursContext(t *testing.T) {
	e := quietEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := e.Do(ctx, "unserved", func(context.Context, int64) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
