//go:build linux
// +build linux

// File: threadname/osname_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux thread names via prctl(PR_SET_NAME / PR_GET_NAME).

package threadname

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const osNameSupported = true

func setOSName(name string) {
	p, err := unix.BytePtrFromString(truncateOSName(name))
	if err != nil {
		return
	}
	_ = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0)
}

func getOSName() string {
	var buf [MaxOSNameLen + 1]byte
	if err := unix.Prctl(unix.PR_GET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0); err != nil {
		return ""
	}
	return unix.ByteSliceToString(buf[:])
}
