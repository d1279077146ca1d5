// File: adapters/pool_adapter.go
// Package adapters provides glue between internal concurrency and api contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PoolAdapter implements api.ResizablePool by delegating to the internal
// concurrency.Pool, whose Push returns a concrete *Future.

package adapters

import (
	"github.com/phuslu/log"

	"github.com/momentics/hioload-threadname/api"
	"github.com/momentics/hioload-threadname/internal/concurrency"
)

// PoolAdapter wraps an internal concurrency.Pool to satisfy api.ResizablePool.
type PoolAdapter struct {
	pool *concurrency.Pool
}

var _ api.ResizablePool = (*PoolAdapter)(nil)

// NewPoolAdapter starts a pool of workers locked to their OS threads.
func NewPoolAdapter(cfg concurrency.PoolConfig, logger log.Logger) *PoolAdapter {
	return &PoolAdapter{pool: concurrency.NewPool(cfg, logger)}
}

// Push submits a task; the handle is invalid if the pool is stopped.
func (pa *PoolAdapter) Push(task api.Task) api.TaskHandle {
	return pa.pool.Push(task)
}

// Size returns the current number of worker slots.
func (pa *PoolAdapter) Size() int {
	return pa.pool.Size()
}

// Resize adjusts the worker count without waiting for surplus workers.
func (pa *PoolAdapter) Resize(newCount int) {
	pa.pool.Resize(newCount)
}

// Stop shuts the pool down, draining or dropping queued tasks.
func (pa *PoolAdapter) Stop(wait bool) {
	pa.pool.Stop(wait)
}

// Workers returns the slot/name view used by debug probes.
func (pa *PoolAdapter) Workers() []concurrency.WorkerInfo {
	return pa.pool.Workers()
}

// Stats returns the pool counters.
func (pa *PoolAdapter) Stats() map[string]int64 {
	return pa.pool.Stats()
}
