//go:build !linux && !windows
// +build !linux,!windows

// File: threadname/osname_stub.go
// Author: momentics <momentics@gmail.com>
//
// Platforms without a cgo-free thread naming call.

package threadname

const osNameSupported = false

func setOSName(name string) {}

func getOSName() string { return "" }
