// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Resizable pool contract on top of WorkerPool.

package api

// ResizablePool is a WorkerPool whose slot count can be changed at runtime
// and which can be shut down.
type ResizablePool interface {
	WorkerPool

	// Resize adjusts the number of worker slots. Shrinking never blocks on
	// running tasks.
	Resize(newCount int)

	// Stop shuts the pool down. With wait set, queued tasks are drained
	// first; otherwise they are dropped.
	Stop(wait bool)
}
