// Package sigcont tracks SIGCONT delivery with a single lock-free
// counter, so that other subsystems (chiefly deadline) can detect
// whether a stop/resume cycle occurred between two points in time
// without installing their own handler.
package sigcont

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// counter is bumped by 2 on every SIGCONT, mirroring
// original_source's processSigCont_.mCount. The low bit is forced set
// on read so a zero-valued, never-installed Tracker can never compare
// equal to a real snapshot.
var counter uint32

var (
	sigCh  chan os.Signal
	stopCh chan struct{}
)

// Install starts the goroutine that watches for SIGCONT and bumps the
// counter. It is idempotent; calling it more than once has no
// additional effect until Uninstall is called.
func Install() {
	if sigCh != nil {
		return
	}
	sigCh = make(chan os.Signal, 8)
	stopCh = make(chan struct{})
	signal.Notify(sigCh, syscall.SIGCONT)

	go func() {
		for {
			select {
			case <-sigCh:
				atomic.AddUint32(&counter, 2)
			case <-stopCh:
				return
			}
		}
	}()
}

// Uninstall stops watching for SIGCONT.
func Uninstall() {
	if sigCh == nil {
		return
	}
	signal.Stop(sigCh)
	close(stopCh)
	sigCh = nil
	stopCh = nil
}

func fetch() uint32 {
	return 1 | atomic.LoadUint32(&counter)
}

// Tracker is a snapshot of the SIGCONT counter, taken by Snapshot and
// compared with Check.
type Tracker struct {
	count uint32
}

// Snapshot captures the current counter value.
func Snapshot() Tracker {
	return Tracker{count: fetch()}
}

// Check reports whether SIGCONT has been observed since the snapshot
// was taken, updating the tracker to the current value as a side
// effect (so successive calls detect only new deliveries).
func (t *Tracker) Check() bool {
	prev := t.count
	t.count = fetch()
	return prev != t.count
}
