// Package sigdispatch is a process-wide, virtualized signal-action
// table: every signal ertgo cares about is registered once with Go's
// os/signal machinery and fanned out to a user Handler under a
// reader-writer lock that serializes delivery against concurrent
// installs, the Go shape of original_source's runSigAction_ /
// dispatchSigAction_ pair.
//
// Go has no user-installable C-level sigaction handler without cgo,
// so delivery itself rides the os/signal channel Go already uses
// internally; what this package virtualizes is everything
// original_source layered on top of raw sigaction: non-reentrant,
// non-restarting dispatch, a per-signal install/delivery mutex, and
// signal-context depth tracking via errframe's stack switch.
package sigdispatch

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"ertgo/errframe"
	"ertgo/errs"
	"ertgo/logging"
)

// Handler is invoked with the delivered signal. It runs with the
// calling goroutine's error stack switched to errframe.Signal and a
// fresh pushed frame sequence, so a failure inside Handler never
// pollutes whatever sequence was open on the interrupted code path.
type Handler func(sig os.Signal)

// Options configures a single Change call.
type Options struct {
	// Restart requests SA_RESTART-like semantics. It is always
	// rejected: event loops built on this package must recompute their
	// deadlines on every signal, never silently retry an interrupted
	// syscall.
	Restart bool
}

type entry struct {
	mu      sync.Mutex
	handler Handler
}

var (
	vecMu      sync.RWMutex
	vec        = map[os.Signal]*entry{}
	notifyCh   = make(chan os.Signal, 64)
	dispatchWG sync.WaitGroup
	started    bool

	depth        int32
	abortPending int32
	quitPending  int32
)

// Change atomically replaces the handler for sig, returning the
// previously installed handler (nil if none). It rejects
// Options.Restart with errs.ErrSignalRestartRejected.
func Change(sig syscall.Signal, handler Handler, opts Options) (Handler, error) {
	if opts.Restart {
		return nil, errs.WrapDetail(errs.ErrSignalRestartRejected, errs.KindInvariant, "sigdispatch.Change", sig.String())
	}

	vecMu.Lock()
	e, ok := vec[sig]
	if !ok {
		e = &entry{}
		vec[sig] = e
	}
	ensureDispatcher()
	vecMu.Unlock()

	vecMu.RLock()
	defer vecMu.RUnlock()

	signal.Notify(notifyCh, sig)

	e.mu.Lock()
	prev := e.handler
	e.handler = handler
	e.mu.Unlock()

	return prev, nil
}

// Remove stops dispatching sig entirely.
func Remove(sig syscall.Signal) {
	vecMu.Lock()
	delete(vec, sig)
	vecMu.Unlock()

	signal.Stop(notifyCh)
	vecMu.RLock()
	for s := range vec {
		signal.Notify(notifyCh, s.(syscall.Signal))
	}
	vecMu.RUnlock()
}

func ensureDispatcher() {
	if started {
		return
	}
	started = true
	dispatchWG.Add(1)
	go dispatchLoop()
}

func dispatchLoop() {
	defer dispatchWG.Done()
	for sig := range notifyCh {
		dispatchOne(sig)
	}
}

// dispatchOne runs one delivery: vector reader lock, stack switch,
// per-signal mutex, abort/quit latch check, pushed frame sequence,
// depth tracking, handler invocation, unwind in reverse.
func dispatchOne(sig os.Signal) {
	vecMu.RLock()
	e, ok := vec[sig]
	vecMu.RUnlock()
	if !ok {
		return
	}

	prevKind := errframe.Switch(errframe.Signal)
	defer errframe.Switch(prevKind)

	e.mu.Lock()
	defer e.mu.Unlock()

	if sig == syscall.SIGABRT && atomic.LoadInt32(&abortPending) != 0 {
		die(sig, "abort pending")
		return
	}
	if sig == syscall.SIGQUIT && atomic.LoadInt32(&quitPending) != 0 {
		die(sig, "quit pending")
		return
	}

	cp := errframe.Push()
	defer errframe.Pop(cp)

	atomic.AddInt32(&depth, 1)
	defer atomic.AddInt32(&depth, -1)

	handler := e.handler
	if handler != nil {
		handler(sig)
	}
}

func die(sig os.Signal, reason string) {
	logging.Error("sigdispatch: terminating on programmatic latch", "signal", sig.String(), "reason", reason)
	os.Exit(1)
}

// SetAbortPending marks a programmatic abort as pending: the next
// SIGABRT delivered through this package terminates the process
// instead of reaching the installed handler.
func SetAbortPending(pending bool) {
	atomic.StoreInt32(&abortPending, boolToInt32(pending))
}

// SetQuitPending marks a programmatic quit as pending, the SIGQUIT
// analogue of SetAbortPending.
func SetQuitPending(pending bool) {
	atomic.StoreInt32(&quitPending, boolToInt32(pending))
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// ContextDepth returns the current nesting depth of signal handlers
// being dispatched through this package.
func ContextDepth() int {
	return int(atomic.LoadInt32(&depth))
}

// Reset clears all installed handlers and pending latches, restoring
// the package to its initial state. Intended for test teardown.
func Reset() {
	vecMu.Lock()
	for s := range vec {
		delete(vec, s)
	}
	vecMu.Unlock()

	signal.Stop(notifyCh)
	atomic.StoreInt32(&depth, 0)
	atomic.StoreInt32(&abortPending, 0)
	atomic.StoreInt32(&quitPending, 0)
}
