// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size pool of OS-thread-locked workers consuming a shared FIFO queue.
// Every worker keeps its OS thread for its whole life, so per-thread state
// such as the OS thread name and CPU affinity belongs to exactly one worker
// slot. Futures returned by Push settle when the task ran, panicked or was
// dropped by a non-draining Stop.
package concurrency
