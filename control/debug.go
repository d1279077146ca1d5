// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import (
	"sync"

	"github.com/momentics/hioload-threadname/internal/concurrency"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// PoolInspector is the read side of a pool the probes report on.
type PoolInspector interface {
	Workers() []concurrency.WorkerInfo
	Stats() map[string]int64
}

// RegisterPoolProbes adds pool.workers and pool.stats.
func RegisterPoolProbes(dp *DebugProbes, pool PoolInspector) {
	dp.RegisterProbe("pool.workers", func() any { return pool.Workers() })
	dp.RegisterProbe("pool.stats", func() any { return pool.Stats() })
}
