//go:build windows
// +build windows

// File: threadname/osname_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows thread descriptions (Windows 10 1607+). Older systems lack the
// procedures and fall back to no-op / empty string.

package threadname

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadDescription = kernel32.NewProc("SetThreadDescription")
	procGetThreadDescription = kernel32.NewProc("GetThreadDescription")
)

var osNameSupported = procSetThreadDescription.Find() == nil

func setOSName(name string) {
	if !osNameSupported {
		return
	}
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return
	}
	_, _, _ = procSetThreadDescription.Call(uintptr(windows.CurrentThread()), uintptr(unsafe.Pointer(p)))
}

func getOSName() string {
	if procGetThreadDescription.Find() != nil {
		return ""
	}
	var p *uint16
	hr, _, _ := procGetThreadDescription.Call(uintptr(windows.CurrentThread()), uintptr(unsafe.Pointer(&p)))
	if int32(hr) < 0 || p == nil {
		return ""
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(p)))
	return windows.UTF16PtrToString(p)
}
