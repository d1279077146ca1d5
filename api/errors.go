// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by pool implementations.

package api

import "errors"

var (
	// ErrPoolStopped is returned for work offered to a stopped pool.
	ErrPoolStopped = errors.New("pool is stopped")

	// ErrTaskDropped settles a task removed from the queue before it ran.
	ErrTaskDropped = errors.New("task dropped before execution")

	// ErrTaskPanicked settles a task whose body panicked.
	ErrTaskPanicked = errors.New("task panicked")
)
