// File: internal/goid/goid.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Goroutine identity. Go has no thread-local storage, so per-thread state is
// keyed by the id the runtime prints in the first line of a stack trace.

package goid

import (
	"runtime"
	"sync"
)

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 64)
		return &b
	},
}

const prefix = "goroutine "

// Get returns the id of the calling goroutine, or 0 if it cannot be parsed.
func Get() uint64 {
	bp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bp)

	buf := *bp
	n := runtime.Stack(buf, false)
	return parse(buf[:n])
}

// parse extracts N from "goroutine N [...".
func parse(b []byte) uint64 {
	if len(b) <= len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	var id uint64
	for _, c := range b[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
