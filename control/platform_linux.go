//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes.

package control

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/momentics/hioload-threadname/threadname"
)

// RegisterPlatformProbes sets Linux-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.os_thread_names", func() any {
		return threadname.OSNameSupported()
	})
	dp.RegisterProbe("platform.threads", func() any {
		return procThreadNames()
	})
}

// procThreadNames maps every thread id of the process to its comm.
func procThreadNames() map[string]string {
	paths, _ := filepath.Glob("/proc/self/task/*/comm")
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		out[filepath.Base(filepath.Dir(p))] = strings.TrimSpace(string(b))
	}
	return out
}
