// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool dispatches tasks from one shared FIFO to a resizable set of worker
// goroutines, each locked to its own OS thread.

package concurrency

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/phuslu/log"

	"github.com/momentics/hioload-threadname/affinity"
	"github.com/momentics/hioload-threadname/api"
	"github.com/momentics/hioload-threadname/threadname"
)

// PoolConfig sizes the pool.
type PoolConfig struct {
	// Workers is the initial slot count; <= 0 means runtime.GOMAXPROCS(0).
	Workers int `mapstructure:"workers" yaml:"workers"`
	// PinCPUs binds worker slot i to logical CPU i % NumCPU.
	PinCPUs bool `mapstructure:"pin_cpus" yaml:"pin_cpus"`
}

// WorkerInfo is a point-in-time view of one worker slot.
type WorkerInfo struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

type job struct {
	task api.Task
	fut  *Future
}

// Pool manages worker goroutines locked to OS threads.
type Pool struct {
	mu      sync.Mutex // guards everything below up to wg
	cond    *sync.Cond // signals queue growth, resize and stop
	queue   *queue.Queue
	workers []*worker
	idle    int
	stopped bool
	wg      sync.WaitGroup

	pinCPUs bool
	log     log.Logger

	// statistics
	totalTasks     atomic.Int64
	completedTasks atomic.Int64
	panickedTasks  atomic.Int64
	droppedTasks   atomic.Int64
}

// worker represents a single pool goroutine.
type worker struct {
	slot     int
	stopping bool         // guarded by Pool.mu
	name     atomic.Value // internal name after the last task
}

// NewPool starts a pool with cfg.Workers workers.
func NewPool(cfg PoolConfig, logger log.Logger) *Pool {
	n := cfg.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		queue:   queue.New(),
		pinCPUs: cfg.PinCPUs,
		log:     logger,
	}
	p.cond = sync.NewCond(&p.mu)

	p.mu.Lock()
	p.grow(n)
	p.mu.Unlock()

	p.log.Debug().Int("workers", n).Bool("pin_cpus", cfg.PinCPUs).Msg("pool started")
	return p
}

// grow starts workers for slots len(workers)..n-1. Caller holds p.mu.
func (p *Pool) grow(n int) {
	for i := len(p.workers); i < n; i++ {
		w := &worker{slot: i}
		w.name.Store("")
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go p.run(w)
	}
}

// Push enqueues task. On a stopped pool the returned future is invalid.
func (p *Pool) Push(task api.Task) *Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return invalidFuture()
	}
	j := &job{task: task, fut: newFuture()}
	p.queue.Add(j)
	p.totalTasks.Add(1)
	p.cond.Signal()
	return j.fut
}

// Size returns the current number of worker slots.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Idle returns the number of workers waiting for a task.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idle
}

// QueueLen returns the number of tasks not yet picked up.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Length()
}

// Resize changes the slot count. Surplus workers are detached right away and
// exit after their current task; Resize never waits for them.
func (p *Pool) Resize(newCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if newCount <= 0 {
		newCount = 1
	}
	current := len(p.workers)
	switch {
	case newCount > current:
		p.grow(newCount)
	case newCount < current:
		for _, w := range p.workers[newCount:] {
			w.stopping = true
		}
		p.workers = p.workers[:newCount:newCount]
		p.cond.Broadcast()
	}
	p.log.Debug().Int("from", current).Int("to", newCount).Msg("pool resized")
}

// Stop shuts the pool down and waits for every worker to exit. With wait set
// the queue is drained first; otherwise queued tasks are dropped and their
// futures settle with api.ErrTaskDropped. Stop is idempotent.
func (p *Pool) Stop(wait bool) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.stopped = true
	var dropped []*job
	if !wait {
		for p.queue.Length() > 0 {
			dropped = append(dropped, p.queue.Remove().(*job))
		}
	}
	for _, w := range p.workers {
		if !wait {
			w.stopping = true
		}
	}
	p.workers = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, j := range dropped {
		j.fut.settle(api.ErrTaskDropped)
	}
	p.droppedTasks.Add(int64(len(dropped)))
	p.wg.Wait()
	p.log.Debug().Bool("drained", wait).Int("dropped", len(dropped)).Msg("pool stopped")
}

// Workers returns each current slot with the internal name its worker had
// after its last task.
func (p *Pool) Workers() []WorkerInfo {
	p.mu.Lock()
	ws := make([]*worker, len(p.workers))
	copy(ws, p.workers)
	p.mu.Unlock()

	out := make([]WorkerInfo, len(ws))
	for i, w := range ws {
		out[i] = WorkerInfo{Slot: w.slot, Name: w.name.Load().(string)}
	}
	return out
}

// Stats returns basic pool metrics.
func (p *Pool) Stats() map[string]int64 {
	p.mu.Lock()
	workers, idle, queued := len(p.workers), p.idle, p.queue.Length()
	p.mu.Unlock()

	total := p.totalTasks.Load()
	completed := p.completedTasks.Load()
	return map[string]int64{
		"total_tasks":     total,
		"completed_tasks": completed,
		"pending_tasks":   total - completed - p.droppedTasks.Load(),
		"queued_tasks":    int64(queued),
		"panicked_tasks":  p.panickedTasks.Load(),
		"dropped_tasks":   p.droppedTasks.Load(),
		"num_workers":     int64(workers),
		"idle_workers":    int64(idle),
	}
}

// run is the main loop of a worker.
func (p *Pool) run(w *worker) {
	defer p.wg.Done()

	// Never unlocked: the OS thread is torn down with the worker, so its name
	// and affinity cannot leak to other goroutines.
	runtime.LockOSThread()
	defer threadname.ClearInternalName()

	if p.pinCPUs {
		cpu := affinity.CPUForSlot(w.slot)
		if err := affinity.SetAffinity(cpu); err != nil {
			p.log.Warn().Err(err).Int("slot", w.slot).Int("cpu", cpu).Msg("pin failed")
		}
	}

	for {
		j, ok := p.next(w)
		if !ok {
			return
		}
		p.execute(w, j)
	}
}

// next blocks until a task is available or the worker must exit.
func (p *Pool) next(w *worker) (*job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle++
	for !w.stopping && !p.stopped && p.queue.Length() == 0 {
		p.cond.Wait()
	}
	p.idle--
	if w.stopping || p.queue.Length() == 0 {
		return nil, false
	}
	return p.queue.Remove().(*job), true
}

// execute runs the task, recovering from panics, and settles its future.
func (p *Pool) execute(w *worker, j *job) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", api.ErrTaskPanicked, r)
			p.panickedTasks.Add(1)
			p.log.Error().Int("slot", w.slot).Interface("panic", r).Msg("task panicked")
		}
		w.name.Store(threadname.GetInternalName())
		p.completedTasks.Add(1)
		j.fut.settle(err)
	}()
	j.task(w.slot)
}
