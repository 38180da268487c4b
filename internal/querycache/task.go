package querycache

import (
	"context"
	"sync"
	"time"
)

// Status is the phase of a Task.
type Status int

// Task phases.
const (
	Pending Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "success"
	case Failed:
		return "failure"
	}
	return "unknown"
}

// State is a snapshot of a Task as seen by a consumer.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Loading reports whether the task has not resolved yet.
func (s State[T]) Loading() bool {
	return s.Status == Pending
}

// Task is a query started in the background.
type Task[T any] struct {
	done chan struct{}

	mu    sync.Mutex
	state State[T]
}

// Start runs Fetch in the background and returns immediately.
func Start[T any](ctx context.Context, c *Cache, key string, window time.Duration, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		v, err := Fetch(ctx, c, key, window, fn)

		t.mu.Lock()
		defer t.mu.Unlock()
		if err != nil {
			t.state = State[T]{Status: Failed, Err: err}
			return
		}
		t.state = State[T]{Status: Succeeded, Data: v}
	}()

	return t
}

// Done is closed once the task has resolved.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// State returns the current snapshot.
func (t *Task[T]) State() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wait blocks until the task resolves or ctx ends and returns the snapshot
// at that point.
func (t *Task[T]) Wait(ctx context.Context) State[T] {
	select {
	case <-t.done:
	case <-ctx.Done():
	}
	return t.State()
}
