// Package sysclock provides the Monotonic, Event, and Bootclock time
// sources used by deadline.
//
// Event time is offset from Monotonic time so that it is never exactly
// zero, letting zero double as Deadline's "unset since" sentinel.
package sysclock

import (
	"sync"
	"time"
)

// Monotonic returns the current monotonic clock reading. Go's
// time.Now() is already backed by the monotonic clock reading on every
// supported platform, so no separate syscall is needed the way
// CLOCK_MONOTONIC required one in C.
func Monotonic() time.Duration {
	return time.Duration(monotonicNanos())
}

func monotonicNanos() int64 {
	return time.Since(processStart).Nanoseconds()
}

var processStart = time.Now()

var eventBaseOnce sync.Once
var eventBase int64

// Event returns the current event-clock reading. It is offset from the
// monotonic clock by one nanosecond at first use, guaranteeing the
// result is never exactly zero.
func Event() time.Duration {
	eventBaseOnce.Do(func() {
		eventBase = monotonicNanos() - 1
	})
	return time.Duration(monotonicNanos() - eventBase)
}
