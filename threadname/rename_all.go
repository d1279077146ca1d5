// File: threadname/rename_all.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool-wide rename barrier. One rename task is pushed per worker slot; each
// task renames its worker and parks until every task has checked in, so no
// worker moves on to real work with a stale name while its siblings rename.

package threadname

import (
	"fmt"
	"sync"
	"time"

	"github.com/momentics/hioload-threadname/api"
)

// Result summarizes one RenameAll call.
type Result struct {
	// Submitted is the pool size snapshot, i.e. the number of tasks pushed.
	Submitted int
	// Renamed is the number of tasks that had checked in at release time.
	Renamed int
	// Straggler is the first slot whose task did not settle in time, or -1.
	Straggler int
	// Elapsed is the wall time of the whole call.
	Elapsed time.Duration
}

// renameSession is the state shared by one RenameAll call and its tasks.
type renameSession struct {
	mu       sync.Mutex
	cond     *sync.Cond
	done     int
	released bool
}

func newRenameSession() *renameSession {
	s := &renameSession{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// checkIn counts the caller as renamed and parks it until release.
func (s *renameSession) checkIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	for !s.released {
		s.cond.Wait()
	}
}

func (s *renameSession) doneCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// release wakes every parked task. Tasks arriving later pass straight through.
func (s *renameSession) release() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.cond.Broadcast()
	return s.done
}

// RenameAll renames every worker of pool to "<baseName>-<slot>" and returns
// once all of them have done so, or once the per-task grace period ran out.
//
// The pool may be busy; the call waits until enough workers pick up their
// rename task. If the pool shrinks after submission, fewer check-ins are
// required. A task that does not settle within the settle timeout is logged
// and the call returns anyway.
func RenameAll(pool api.WorkerPool, baseName string, opts ...Option) Result {
	o := newOptions(opts)
	start := time.Now()
	sess := newRenameSession()

	n := max(pool.Size(), 0)
	handles := make([]api.TaskHandle, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s-%d", baseName, i)
		handles[i] = pool.Push(func(int) {
			Rename(name)
			sess.checkIn()
		})
	}

	// Sleep at least once so pushed tasks get a chance to reach their workers.
	for {
		o.sleep(o.pollInterval)
		done := sess.doneCount()
		if done >= n || done >= pool.Size() {
			break
		}
	}

	res := Result{Submitted: n, Straggler: -1}
	res.Renamed = sess.release()

	for i, h := range handles {
		if h == nil || !h.Valid() {
			continue
		}
		if h.WaitFor(o.settleTimeout) == api.TaskTimeout {
			o.logger.Warn().
				Str("op", "RenameAll").
				Str("base", baseName).
				Int("slot", i).
				Dur("timeout", o.settleTimeout).
				Msgf("%s-%d timed out", baseName, i)
			res.Straggler = i
			sess.release()
			break
		}
	}

	res.Elapsed = time.Since(start)
	if o.observer != nil {
		o.observer.ObserveRename(baseName, res)
	}
	return res
}
