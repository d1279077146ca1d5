// File: internal/concurrency/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"time"

	"github.com/momentics/hioload-threadname/api"
)

// Future is the completion handle of a pushed task.
type Future struct {
	done chan struct{}
	err  error
}

var _ api.TaskHandle = (*Future)(nil)

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// invalidFuture is handed out for tasks the pool refused.
func invalidFuture() *Future {
	return &Future{err: api.ErrPoolStopped}
}

// Valid reports whether the task was accepted by the pool.
func (f *Future) Valid() bool {
	return f != nil && f.done != nil
}

// WaitFor blocks until the task settles or d elapses. An invalid future is
// always ready.
func (f *Future) WaitFor(d time.Duration) api.TaskStatus {
	if !f.Valid() {
		return api.TaskReady
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-f.done:
		return api.TaskReady
	case <-t.C:
		return api.TaskTimeout
	}
}

// Wait blocks until the task settles and returns its error.
func (f *Future) Wait() error {
	if f.Valid() {
		<-f.done
	}
	return f.err
}

// Done is closed once the task settles. It is nil for an invalid future.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err returns the settle error; only meaningful after Done is closed.
func (f *Future) Err() error {
	return f.err
}

// settle must be called exactly once per valid future.
func (f *Future) settle(err error) {
	f.err = err
	close(f.done)
}
