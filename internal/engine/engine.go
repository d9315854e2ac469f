package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrStopped is returned for tasks submitted after the engine stopped, and
// for queued tasks that never ran.
var ErrStopped = errors.New("engine stopped")

// TaskFunc is a unit of work run on the engine goroutine. seq is the
// task's logical timestamp.
type TaskFunc func(ctx context.Context, seq int64) error

type task struct {
	name string
	fn   TaskFunc
	done chan error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock tasks are stamped with.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// Engine is the single-writer task loop.
type Engine struct {
	queue  *taskQueue
	clock  *Clock
	logger *slog.Logger
}

// New creates an engine. Call Run to start processing.
func New(opts ...Option) *Engine {
	e := &Engine{
		queue:  newTaskQueue(),
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's clock.
func (e *Engine) Clock() *Clock { return e.clock }

// Submit queues fn without waiting for it. It returns false if the engine
// has been stopped.
// Thread-safe: may be called from any goroutine.
func (e *Engine) Submit(name string, fn TaskFunc) bool {
	return e.queue.Enqueue(&task{name: name, fn: fn})
}

// Do queues fn and waits until it ran, returning its error. It returns
// ctx.Err() if ctx ends first; the task still runs later.
// Must not be called from a task, which would deadlock.
func (e *Engine) Do(ctx context.Context, name string, fn TaskFunc) error {
	t := &task{name: name, fn: fn, done: make(chan error, 1)}
	if !e.queue.Enqueue(t) {
		return fmt.Errorf("%s: %w", name, ErrStopped)
	}
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is cancelled or Stop is called. Tasks still
// queued at that point fail with ErrStopped.
//
// Must be called from exactly one goroutine. A failing or panicking task is
// logged and the loop continues.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting")
	defer e.failPending()

	for {
		if t, ok := e.queue.TryDequeue(); ok {
			e.runTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case _, open := <-e.queue.Wait():
			if !open && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the queued tasks are done.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) runTask(ctx context.Context, t *task) {
	seq := e.clock.Next()
	err := e.call(ctx, t, seq)
	if err != nil {
		e.logger.Error("task failed",
			"task", t.name,
			"seq", seq,
			"error", err,
		)
	} else {
		e.logger.Debug("task done", "task", t.name, "seq", seq)
	}
	if t.done != nil {
		t.done <- err
	}
}

func (e *Engine) call(ctx context.Context, t *task, seq int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", t.name, r)
		}
	}()
	return t.fn(ctx, seq)
}

func (e *Engine) failPending() {
	for _, t := range e.queue.Drain() {
		if t.done != nil {
			t.done <- fmt.Errorf("%s: %w", t.name, ErrStopped)
		}
	}
}
