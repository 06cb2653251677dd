// Package envcfg reads the handful of environment variables ertgo's
// daemon subsystems honour, the Go shape of original_source's
// env.c/env.h accessors (ert_getEnvString, ert_getEnvUInt64, ...)
// re-expressed as typed getters instead of out-parameters.
package envcfg

import (
	"math/rand"
	"os"
	"strconv"
	"sync"

	"ertgo/errs"
)

// TempDir returns $TMPDIR, falling back to os.TempDir's default when
// unset, matching original_source's preference for an explicitly
// configured scratch directory over a hardcoded /tmp.
func TempDir() string {
	if dir := os.Getenv("TMPDIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// Shell returns $SHELL, the program execShell-equivalent operations
// invoke, falling back to /bin/sh when unset.
func Shell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// GetString reads name as a string, failing with errs.KindInvariant if
// it is unset (the Go analogue of ert_getEnvString reporting ENOENT).
func GetString(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", errs.New(errs.KindInvariant, "envcfg.GetString", name+" is not set")
	}
	return v, nil
}

// GetUint64 reads name and parses it as a decimal uint64.
func GetUint64(name string) (uint64, error) {
	v, err := GetString(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindProtocol, "envcfg.GetUint64")
	}
	return n, nil
}

// Trigger is the error-injection harness described by the error
// taxonomy's Injected kind: once installed, it watches a monotonic
// call counter and, on a caller-chosen call, reports failure instead
// of success, injecting either EINTR or EIO chosen at random, the Go
// analogue of the predicate macros' internal failure-injection hook.
type Trigger struct {
	mu      sync.Mutex
	target  uint64
	count   uint64
	enabled bool
}

// NewTrigger reads the env var named by varName, which if set and
// parseable as a decimal uint64 names the call count on which Check
// should report injected failure. If varName is unset, the returned
// Trigger never fires.
func NewTrigger(varName string) *Trigger {
	t := &Trigger{}
	if n, err := GetUint64(varName); err == nil {
		t.target = n
		t.enabled = true
	}
	return t
}

// Check increments the call counter and reports a non-nil
// errs.ErrInjected-wrapped error if this call is the configured
// trigger point.
func (t *Trigger) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	if !t.enabled || t.count != t.target {
		return nil
	}

	if rand.Intn(2) == 0 {
		return errs.WrapDetail(errs.ErrInjected, errs.KindInjected, "envcfg.Trigger.Check", "EINTR")
	}
	return errs.WrapDetail(errs.ErrInjected, errs.KindInjected, "envcfg.Trigger.Check", "EIO")
}
