//go:build !windows

package idrpseudo

import "time"

// TimeStamp is a monotonic point in time with the best resolution the platform offers.
// TimeStamps are only comparable within one process.
type TimeStamp = time.Time

// SampleTime returns the current TimeStamp.
func SampleTime() TimeStamp {
	return time.Now()
}

// DiffTimeStamps returns later - earlier in nanoseconds. It is negative if later precedes earlier.
func DiffTimeStamps(earlier, later TimeStamp) int64 {
	return later.Sub(earlier).Nanoseconds()
}
