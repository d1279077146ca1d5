// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides scripted test doubles for api contracts.
package fake

import (
	"sync"
	"time"

	"github.com/momentics/hioload-threadname/api"
	"github.com/momentics/hioload-threadname/threadname"
)

// WorkerPool runs every pushed task on a fresh goroutine and reports a size
// the test controls. Individual submissions can be scripted to misbehave.
type WorkerPool struct {
	mu     sync.Mutex
	size   int
	pushed int
	names  map[int]string

	// Stuck submissions run but their handle never settles.
	Stuck map[int]bool
	// Dropped submissions never run and their handle never settles.
	Dropped map[int]bool
	// Invalid submissions are refused with an invalid handle.
	Invalid map[int]bool
	// AfterPush, if set, runs after each submission with its index.
	AfterPush func(index int)
}

var _ api.WorkerPool = (*WorkerPool)(nil)

// NewWorkerPool returns a pool reporting size slots.
func NewWorkerPool(size int) *WorkerPool {
	return &WorkerPool{
		size:    size,
		names:   make(map[int]string),
		Stuck:   make(map[int]bool),
		Dropped: make(map[int]bool),
		Invalid: make(map[int]bool),
	}
}

// Size returns the scripted slot count.
func (p *WorkerPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// SetSize changes the reported slot count.
func (p *WorkerPool) SetSize(n int) {
	p.mu.Lock()
	p.size = n
	p.mu.Unlock()
}

// Pushed returns how many tasks were submitted.
func (p *WorkerPool) Pushed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushed
}

// Names returns the internal name each executed submission left behind.
func (p *WorkerPool) Names() map[int]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[int]string, len(p.names))
	for k, v := range p.names {
		out[k] = v
	}
	return out
}

// Push starts task on its own goroutine unless scripted otherwise.
func (p *WorkerPool) Push(task api.Task) api.TaskHandle {
	p.mu.Lock()
	idx := p.pushed
	p.pushed++
	stuck, dropped, invalid := p.Stuck[idx], p.Dropped[idx], p.Invalid[idx]
	hook := p.AfterPush
	p.mu.Unlock()

	if invalid {
		return InvalidHandle{}
	}
	h := NewHandle()
	if !dropped {
		go func() {
			task(idx)
			p.mu.Lock()
			p.names[idx] = threadname.GetInternalName()
			p.mu.Unlock()
			threadname.ClearInternalName()
			if !stuck {
				h.Settle()
			}
		}()
	}
	if hook != nil {
		hook(idx)
	}
	return h
}

// Handle is a manually settled api.TaskHandle.
type Handle struct {
	once sync.Once
	done chan struct{}
}

// NewHandle returns an unsettled handle.
func NewHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Settle marks the handle ready. Safe to call more than once.
func (h *Handle) Settle() {
	h.once.Do(func() { close(h.done) })
}

// Valid always reports true; the task was accepted.
func (h *Handle) Valid() bool { return true }

// WaitFor blocks until Settle is called or d elapses.
func (h *Handle) WaitFor(d time.Duration) api.TaskStatus {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-h.done:
		return api.TaskReady
	case <-t.C:
		return api.TaskTimeout
	}
}

// InvalidHandle is the handle of a refused task.
type InvalidHandle struct{}

// Valid always reports false.
func (InvalidHandle) Valid() bool { return false }

// WaitFor returns TaskReady at once; there is nothing to wait for.
func (InvalidHandle) WaitFor(time.Duration) api.TaskStatus { return api.TaskReady }
