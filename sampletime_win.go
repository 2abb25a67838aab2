//go:build windows

package idrpseudo

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// TimeStamp is a QueryPerformanceCounter reading. TimeStamps are only comparable within one process.
type TimeStamp = int64

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	procFreq    = modkernel32.NewProc("QueryPerformanceFrequency")
	procCounter = modkernel32.NewProc("QueryPerformanceCounter")

	// ticks per second
	qpcFrequency = queryFrequency()
)

func queryFrequency() int64 {
	var freq int64
	r1, _, err := procFreq.Call(uintptr(unsafe.Pointer(&freq)))
	if r1 == 0 {
		panic(fmt.Sprintf("QueryPerformanceFrequency failed: %v", err))
	}
	return freq
}

// SampleTime returns the current TimeStamp.
func SampleTime() TimeStamp {
	var qpc int64
	procCounter.Call(uintptr(unsafe.Pointer(&qpc)))
	return qpc
}

// DiffTimeStamps returns later - earlier in nanoseconds. It is negative if later precedes earlier.
func DiffTimeStamps(earlier, later TimeStamp) int64 {
	return (later - earlier) * 1_000_000_000 / qpcFrequency
}
