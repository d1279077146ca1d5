// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity of the calling OS thread. Platform
// implementations live in affinity_linux.go, affinity_windows.go and
// affinity_stub.go. Callers must hold runtime.LockOSThread for the binding to
// stay with their goroutine.

package affinity

import (
	"errors"
	"runtime"
)

// ErrNotSupported is returned on platforms without thread affinity control.
var ErrNotSupported = errors.New("affinity: not supported on this platform")

// SetAffinity pins the current OS thread to a logical CPU.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return errors.New("affinity: negative cpu id")
	}
	return setAffinityPlatform(cpuID)
}

// CPUForSlot maps a worker slot onto the available logical CPUs round-robin.
func CPUForSlot(slot int) int {
	n := runtime.NumCPU()
	if n <= 0 || slot < 0 {
		return 0
	}
	return slot % n
}
