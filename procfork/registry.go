package procfork

import (
	"os"
	"strconv"
	"sync"

	"ertgo/errs"
	"ertgo/logging"
)

// Environment variables used to carry fork protocol state across the
// re-exec boundary. None of these are meant to be set by callers
// directly; Fork sets them on the child's Cmd.Env.
const (
	envEntrypoint = "ERTGO_FORK_ENTRYPOINT"
	envPipeFd     = "ERTGO_FORK_PIPE_FD"
	envBellFd     = "ERTGO_FORK_BELL_FD"
	envPgrp       = "ERTGO_FORK_PGRP"
	envPgid       = "ERTGO_FORK_PGID"
)

var (
	registryMu  sync.Mutex
	entrypoints = map[string]func() int{}
)

// RegisterEntrypoint associates name with fn so that a forked child
// can look it up by name after re-exec. Entrypoints are typically
// registered from package init functions, before main runs, so that
// RunEntrypointIfRequested can find them regardless of which package
// triggered the fork.
func RegisterEntrypoint(name string, fn func() int) {
	registryMu.Lock()
	defer registryMu.Unlock()
	entrypoints[name] = fn
}

func lookupEntrypoint(name string) (func() int, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	fn, ok := entrypoints[name]
	return fn, ok
}

// RunEntrypointIfRequested checks whether the current process is a
// procfork child (i.e. was re-exec'd with the fork protocol's
// environment variables set) and, if so, runs the post-fork bootstrap
// and the registered entrypoint, then exits the process with the
// entrypoint's return code. It returns false if this process is not a
// procfork child, in which case the caller's main should proceed
// normally.
//
// A real main function calls this as its first statement:
//
//	func main() {
//	    if procfork.RunEntrypointIfRequested() {
//	        return // unreachable; RunEntrypointIfRequested exits
//	    }
//	    ...
//	}
func RunEntrypointIfRequested() bool {
	name := os.Getenv(envEntrypoint)
	if name == "" {
		return false
	}

	os.Exit(runForkedChild(name))
	return true
}

func runForkedChild(name string) int {
	pipeFd, bellFd, err := forkChannelFds()
	if err != nil {
		logging.Error("procfork: child could not recover fork channel fds", "error", err)
		return 1
	}

	pipe := adoptPipe(pipeFd)
	bell := adoptBell(bellFd)

	if err := bootstrapChild(pipe, bell); err != nil {
		logging.Error("procfork: child bootstrap failed", "error", err)
		pipe.Send(err)
		return 1
	}

	fn, ok := lookupEntrypoint(name)
	if !ok {
		err := errs.WrapDetail(errs.ErrForkChildFailed, errs.KindInvariant, "procfork.runForkedChild", "entrypoint not registered: "+name)
		logging.Error("procfork: child entrypoint not registered", "entrypoint", name)
		pipe.Send(err)
		return 1
	}

	if err := pipe.Send(nil); err != nil {
		logging.Error("procfork: child could not report readiness", "error", err)
		return 1
	}
	if err := bell.RingChild(); err != nil {
		logging.Error("procfork: child could not ring bell", "error", err)
		return 1
	}
	if err := bell.WaitChild(); err != nil {
		logging.Error("procfork: child did not receive parent acknowledgement", "error", err)
		return 1
	}

	return fn()
}

func forkChannelFds() (pipeFd, bellFd int, err error) {
	pipeFd, err = strconv.Atoi(os.Getenv(envPipeFd))
	if err != nil {
		return 0, 0, err
	}
	bellFd, err = strconv.Atoi(os.Getenv(envBellFd))
	if err != nil {
		return 0, 0, err
	}
	return pipeFd, bellFd, nil
}
