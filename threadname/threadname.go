// File: threadname/threadname.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package threadname

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/momentics/hioload-threadname/internal/goid"
)

// MaxOSNameLen is the number of visible bytes Linux keeps for a thread name
// (TASK_COMM_LEN minus the terminator).
const MaxOSNameLen = 15

// internalNames maps goroutine id to its internal name. Every entry is
// written only by the goroutine it belongs to.
var internalNames sync.Map

// SetOSName sets the calling OS thread's name where the platform supports it.
// Errors are ignored.
func SetOSName(name string) {
	setOSName(name)
}

// GetOSName returns the calling OS thread's name, or "" when the platform
// cannot report it.
func GetOSName() string {
	return getOSName()
}

// OSNameSupported reports whether SetOSName has an effect on this platform.
func OSNameSupported() bool {
	return osNameSupported
}

// GetInternalName returns the calling goroutine's internal name, "" if it was
// never set.
func GetInternalName() string {
	if v, ok := internalNames.Load(goid.Get()); ok {
		return v.(string)
	}
	return ""
}

// SetInternalName stores name as the calling goroutine's internal name. The
// OS name is not touched. The entry lives until the goroutine calls
// ClearInternalName; goroutines that exit without it leave the entry behind.
// WithName pairs the two for short-lived goroutines.
func SetInternalName(name string) {
	internalNames.Store(goid.Get(), name)
}

// ClearInternalName forgets the calling goroutine's internal name. Long-lived
// workers call it on exit so the entry does not outlive them.
func ClearInternalName() {
	internalNames.Delete(goid.Get())
}

// Rename sets both the OS name and the internal name of the caller. The same
// cleanup obligation as SetInternalName applies.
func Rename(name string) {
	SetOSName(name)
	SetInternalName(name)
}

// WithName runs fn with name as the caller's internal name and forgets the
// name when fn returns, panics included. The OS name is not touched.
func WithName(name string, fn func()) {
	SetInternalName(name)
	defer ClearInternalName()
	fn()
}

// truncateOSName cuts name at the first NUL and to at most MaxOSNameLen bytes
// without splitting a UTF-8 sequence.
func truncateOSName(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if len(name) <= MaxOSNameLen {
		return name
	}
	cut := MaxOSNameLen
	for cut > MaxOSNameLen-utf8.UTFMax+1 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
