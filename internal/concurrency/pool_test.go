// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

package concurrency

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threadname/api"
	"github.com/momentics/hioload-threadname/threadname"
)

func quietLogger() log.Logger {
	return log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: &bytes.Buffer{}}}
}

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 4}, quietLogger())
	defer p.Stop(true)

	var counter atomic.Int64
	futs := make([]*Future, 50)
	for i := range futs {
		futs[i] = p.Push(func(int) { counter.Add(1) })
	}
	for _, f := range futs {
		require.NoError(t, f.Wait())
	}
	assert.Equal(t, int64(50), counter.Load())
	assert.Equal(t, int64(50), p.Stats()["completed_tasks"])
}

func TestPoolDefaultSize(t *testing.T) {
	p := NewPool(PoolConfig{}, quietLogger())
	defer p.Stop(true)
	assert.Positive(t, p.Size())
}

func TestPoolTaskSeesItsSlot(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, quietLogger())
	defer p.Stop(true)

	var slot atomic.Int64
	slot.Store(-1)
	require.NoError(t, p.Push(func(s int) { slot.Store(int64(s)) }).Wait())
	assert.Contains(t, []int64{0, 1}, slot.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1}, quietLogger())
	defer p.Stop(true)

	err := p.Push(func(int) { panic("boom") }).Wait()
	assert.True(t, errors.Is(err, api.ErrTaskPanicked))

	// the worker survives
	require.NoError(t, p.Push(func(int) {}).Wait())
	assert.Equal(t, int64(1), p.Stats()["panicked_tasks"])
}

func TestPoolStopDropsQueuedTasks(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1}, quietLogger())

	gate := make(chan struct{})
	started := make(chan struct{})
	running := p.Push(func(int) {
		close(started)
		<-gate
	})
	<-started
	queued := p.Push(func(int) { t.Error("dropped task ran") })

	stopped := make(chan struct{})
	go func() {
		p.Stop(false)
		close(stopped)
	}()

	assert.Equal(t, api.TaskReady, queued.WaitFor(time.Second))
	assert.ErrorIs(t, queued.Err(), api.ErrTaskDropped)

	close(gate)
	<-stopped
	require.NoError(t, running.Wait())
	assert.Equal(t, 0, p.Size())
	assert.False(t, p.Push(func(int) {}).Valid())
}

func TestPoolStopDrains(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, quietLogger())
	var counter atomic.Int64
	for i := 0; i < 20; i++ {
		p.Push(func(int) {
			time.Sleep(time.Millisecond)
			counter.Add(1)
		})
	}
	p.Stop(true)
	assert.Equal(t, int64(20), counter.Load())
}

func TestPoolResize(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 4}, quietLogger())
	defer p.Stop(true)

	p.Resize(8)
	assert.Equal(t, 8, p.Size())

	p.Resize(2)
	assert.Equal(t, 2, p.Size())

	p.Resize(0)
	assert.Equal(t, 1, p.Size())

	var counter atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		f := p.Push(func(int) { counter.Add(1) })
		go func() {
			defer wg.Done()
			_ = f.Wait()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), counter.Load())
}

func TestPoolShrinkDoesNotWaitForBusyWorkers(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, quietLogger())
	defer p.Stop(true)

	gate := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)
	for i := 0; i < 2; i++ {
		p.Push(func(int) {
			started.Done()
			<-gate
		})
	}
	started.Wait()

	done := make(chan struct{})
	go func() {
		p.Resize(1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Resize blocked on busy workers")
	}
	close(gate)
}

func TestPoolWorkersReportInternalNames(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1}, quietLogger())
	defer p.Stop(true)

	require.NoError(t, p.Push(func(int) { threadname.SetInternalName("solo-0") }).Wait())
	ws := p.Workers()
	require.Len(t, ws, 1)
	assert.Equal(t, WorkerInfo{Slot: 0, Name: "solo-0"}, ws[0])
}

func TestFutureWaitForTimeout(t *testing.T) {
	f := newFuture()
	assert.True(t, f.Valid())
	assert.Equal(t, api.TaskTimeout, f.WaitFor(5*time.Millisecond))
	f.settle(nil)
	assert.Equal(t, api.TaskReady, f.WaitFor(5*time.Millisecond))

	inv := invalidFuture()
	assert.False(t, inv.Valid())
	assert.Equal(t, api.TaskReady, inv.WaitFor(time.Hour))
	assert.ErrorIs(t, inv.Wait(), api.ErrPoolStopped)
}
