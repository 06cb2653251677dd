// Package deadline combines sysclock's event clock with sigcont's
// SIGCONT tracker to implement the expiry state machine from
// original_source/src/deadline.c almost line for line: a caller polls
// readiness, and the deadline treats an intervening stop/resume cycle
// as a reason to ignore an apparent expiry and start over.
package deadline

import (
	"time"

	"ertgo/errs"
	"ertgo/sigcont"
	"ertgo/sysclock"
)

var errExpired = errs.ErrDeadlineExpired

// PollFunc reports whether the awaited condition is already satisfied.
type PollFunc func() (bool, error)

// WaitFunc blocks until the condition is satisfied or remaining
// elapses, whichever comes first.
type WaitFunc func(remaining time.Duration) error

// Deadline tracks an optional duration, resetting itself whenever
// SIGCONT is observed to have been delivered since the deadline was
// last latched.
type Deadline struct {
	since    time.Duration // 0 = unset
	duration *time.Duration
	sigCont  sigcont.Tracker
	expired  bool
}

// New creates a Deadline. A nil duration means "never expires" — the
// caller only cares about polling readiness, never about ETIMEDOUT.
func New(duration *time.Duration) *Deadline {
	return &Deadline{
		duration: duration,
		sigCont:  sigcont.Snapshot(),
	}
}

// Expired reports the sticky expiry flag latched by the most recent
// CheckExpired call.
func (d *Deadline) Expired() bool {
	return d.expired
}

// CheckExpired latches the current event-clock time, polls readiness
// via poll, and if not ready, waits up to the remaining duration via
// wait. It returns (true, nil) if poll reported readiness, (false, nil)
// if it waited and should be called again, or a non-nil error: the
// error poll or wait returned, or errs.ErrDeadlineExpired once the
// duration has elapsed without an intervening SIGCONT.
func (d *Deadline) CheckExpired(poll PollFunc, wait WaitFunc) (bool, error) {
	now := sysclock.Event()

	ready, err := poll()
	if err != nil {
		return false, err
	}
	if ready {
		return true, nil
	}

	if d.duration != nil && d.since != 0 && now-d.since >= *d.duration {
		if d.sigCont.Check() {
			// A stop/resume occurred since since was latched: the
			// apparent expiry doesn't count, restart the window.
			d.since = 0
		} else {
			d.expired = true
			return false, errExpired
		}
	}

	if d.since == 0 {
		d.since = now
	}

	remaining := infiniteWait
	if d.duration != nil {
		elapsed := now - d.since
		remaining = *d.duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
	}

	if err := wait(remaining); err != nil {
		return false, err
	}
	return false, nil
}

const infiniteWait = time.Duration(-1)
