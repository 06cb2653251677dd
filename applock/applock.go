// Package applock implements a single process-wide application lock:
// a recursive mutex guarding one fcntl(2) write lock on a lock file,
// the Go shape of original_source's Ert_ProcessAppLock.
//
// original_source builds its recursion on a ThreadSigMutex that also
// blocks a configured signal set for the duration of the critical
// section, so a signal handler racing the owning OS thread can never
// deadlock against it. Go's signal handlers never run on the
// interrupted goroutine's own stack (sigdispatch delivers them on a
// dedicated dispatch goroutine), so the specific hazard ThreadSigMutex
// guards against cannot occur here; a gate mutex held for the
// outermost critical section's duration, plus goroutine-id recursion
// on top of it, covers the same contract.
package applock

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"ertgo/errframe"
	"ertgo/errs"
)

// Lock is a recursive, process-wide application lock backed by an
// fcntl write lock on a single file.
type Lock struct {
	mu    sync.Mutex
	owner uint64
	held  bool
	count int

	// gate is held for the entire duration of the outermost critical
	// section (from the first Acquire to the matching Release), so a
	// second goroutine's Acquire blocks on it instead of observing
	// held==true and falling through without ownership.
	gate sync.Mutex

	file *os.File
	path string
}

// New opens (creating if necessary) the lock file at path. The lock
// itself starts unacquired.
func New(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindResource, "applock.New")
	}
	return &Lock{file: f, path: path}, nil
}

// Acquire acquires the lock. Calls from the same goroutine nest: the
// underlying file lock is only taken on the outermost call. A call
// from a different goroutine blocks on gate until the current owner's
// outermost Release runs.
func (l *Lock) Acquire() error {
	gid := errframe.GoroutineID()

	l.mu.Lock()
	if l.held && l.owner == gid {
		l.count++
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	l.gate.Lock()

	if err := lockFile(l.file); err != nil {
		l.gate.Unlock()
		return errs.Wrap(err, errs.KindResource, "applock.Acquire")
	}

	l.mu.Lock()
	l.held = true
	l.owner = gid
	l.count++
	l.mu.Unlock()
	return nil
}

// Release releases one level of nesting. The file lock is only
// dropped once the outermost Acquire's matching Release runs.
// Releasing a lock not held by the calling goroutine fails with
// errs.ErrLockNotHeld.
func (l *Lock) Release() error {
	gid := errframe.GoroutineID()

	l.mu.Lock()
	if !l.held || l.owner != gid {
		l.mu.Unlock()
		return errs.WrapDetail(errs.ErrLockNotHeld, errs.KindInvariant, "applock.Release", "")
	}

	l.count--
	if l.count > 0 {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	if err := unlockFile(l.file); err != nil {
		return errs.Wrap(err, errs.KindResource, "applock.Release")
	}

	l.mu.Lock()
	l.held = false
	l.owner = 0
	l.mu.Unlock()

	l.gate.Unlock()
	return nil
}

// Count reports the current nesting depth (0 if unheld).
func (l *Lock) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// File returns the underlying lock file.
func (l *Lock) File() *os.File {
	return l.file
}

// Close releases the file handle. The lock must not be held.
func (l *Lock) Close() error {
	return l.file.Close()
}

func lockFile(f *os.File) error {
	return unix.FcntlFlock(f.Fd(), unix.F_SETLKW, &unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: int16(os.SEEK_SET),
		Start:  0,
		Len:    0,
	})
}

func unlockFile(f *os.File) error {
	return unix.FcntlFlock(f.Fd(), unix.F_SETLK, &unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: int16(os.SEEK_SET),
		Start:  0,
		Len:    0,
	})
}
