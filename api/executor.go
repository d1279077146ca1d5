// Package api
// Author: momentics
//
// Worker pool contract consumed by the pool-wide rename barrier.

package api

import "time"

// Task is a unit of work executed on a pool worker. slot is the index of the
// worker running it.
type Task func(slot int)

// WorkerPool abstracts a fixed-size pool of OS-backed workers consuming a
// shared task queue.
type WorkerPool interface {
	// Size returns the current number of worker slots. It may change
	// concurrently with any other call.
	Size() int

	// Push submits a task and returns a handle to its completion.
	Push(task Task) TaskHandle
}

// TaskHandle tracks one submitted task.
type TaskHandle interface {
	// Valid reports whether the handle refers to an accepted task.
	Valid() bool

	// WaitFor blocks until the task settles or d elapses.
	WaitFor(d time.Duration) TaskStatus
}

// TaskStatus is the outcome of a bounded wait on a TaskHandle.
type TaskStatus int

const (
	// TaskReady means the task settled (ran, panicked or was dropped).
	TaskReady TaskStatus = iota
	// TaskTimeout means the wait elapsed before the task settled.
	TaskTimeout
)

func (s TaskStatus) String() string {
	switch s {
	case TaskReady:
		return "ready"
	case TaskTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}
