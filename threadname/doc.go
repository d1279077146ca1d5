// Package threadname
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread naming for observability.
//
// Two names are kept for the calling goroutine:
//   - the OS name, set with the platform's native call (prctl on Linux,
//     SetThreadDescription on Windows) and visible to ps, top, debuggers and
//     profilers. It only sticks to the goroutine if the goroutine is locked
//     to its OS thread with runtime.LockOSThread.
//   - the internal name, an in-process string kept per goroutine that is
//     available on every platform and never truncated.
//
// RenameAll renames every worker of a live pool behind a one-shot barrier.
package threadname
