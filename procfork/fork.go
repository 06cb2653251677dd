package procfork

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"ertgo/applock"
	"ertgo/errs"
	"ertgo/fdset"
	"ertgo/ioutil2"
)

// clkTck approximates CLOCK_TICKS_PER_SEC (sysconf(_SC_CLK_TCK) is 100
// on every Linux platform this package targets).
const clkTck = 100

// forkSettleDelay is the parent's post-fork pause: 5/4 of a clock tick,
// long enough that a subsequent PidSignature (which keys off
// /proc/<pid>/stat's start-time field, itself measured in clock ticks)
// cannot collide with a recycled pid's signature from the same tick.
const forkSettleDelay = time.Second * 5 / (4 * clkTck)

var (
	forkLockOnce sync.Once
	forkLock     *applock.Lock
	forkLockErr  error
)

func getForkLock() (*applock.Lock, error) {
	forkLockOnce.Do(func() {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("ertgo-fork-%d.lock", os.Getpid()))
		forkLock, forkLockErr = applock.New(path)
	})
	return forkLock, forkLockErr
}

// Fork starts a child process via re-exec, running opts.Entrypoint
// once the child has finished the pre-exec setup every fork performs:
// process-group placement, default signal dispositions, and an fd
// table limited to stdio, opts.ExtraFiles and the fork channel's own
// two ends. The PreFork whitelist adds no fds to the child's table.
func Fork(opts Options) (*Result, error) {
	lock, err := getForkLock()
	if err != nil {
		return nil, err
	}
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer lock.Release()

	whitelist := fdset.New()
	blacklist := fdset.New()

	if opts.PreFork != nil {
		if err := opts.PreFork(whitelist, blacklist); err != nil {
			return nil, errs.Wrap(err, errs.KindResource, "procfork.Fork")
		}
	}
	for _, fd := range []int{0, 1, 2} {
		whitelist.Insert(fdset.Range{Lhs: fd, Rhs: fd})
		blacklist.Remove(fdset.Range{Lhs: fd, Rhs: fd})
	}

	pipe, err := ioutil2.NewPipe()
	if err != nil {
		return nil, err
	}
	bell, err := ioutil2.NewBell()
	if err != nil {
		pipe.Close()
		return nil, err
	}

	self, err := os.Executable()
	if err != nil {
		pipe.Close()
		bell.Close()
		return nil, errs.Wrap(err, errs.KindResource, "procfork.Fork")
	}

	extraFiles := append([]*os.File{}, opts.ExtraFiles...)
	extraFiles = append(extraFiles, pipe.Writer(), bell.ChildFile())
	pipeFd := 3 + len(extraFiles) - 2
	bellFd := 3 + len(extraFiles) - 1

	cmd := exec.Command(self)
	cmd.ExtraFiles = extraFiles
	cmd.Env = append(os.Environ(),
		envEntrypoint+"="+opts.Entrypoint,
		envPipeFd+"="+strconv.Itoa(pipeFd),
		envBellFd+"="+strconv.Itoa(bellFd),
		envPgrp+"="+strconv.Itoa(int(opts.Pgrp)),
		envPgid+"="+strconv.Itoa(opts.Pgid),
	)
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{}
	switch opts.Pgrp {
	case SetPgrp:
		cmd.SysProcAttr.Setpgid = true
		cmd.SysProcAttr.Pgid = opts.Pgid
	case SetSessionLeader:
		cmd.SysProcAttr.Setsid = true
	}

	if blacklistContains(blacklist, 0) {
		cmd.Stdin = nil
	} else {
		cmd.Stdin = os.Stdin
	}
	if blacklistContains(blacklist, 1) {
		cmd.Stdout = nil
	} else {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		pipe.Close()
		bell.Close()
		return nil, errs.Wrap(err, errs.KindResource, "procfork.Fork")
	}

	pipe.CloseWriter()
	bell.CloseChild()

	if opts.Pgrp == SetPgrp {
		_ = syscall.Setpgid(cmd.Process.Pid, opts.Pgid)
	}

	time.Sleep(forkSettleDelay)

	if err := bell.WaitParent(); err != nil {
		pipe.Close()
		bell.Close()
		return nil, err
	}
	if err := pipe.Recv(); err != nil {
		pipe.Close()
		bell.Close()
		return nil, err
	}

	if opts.PostForkParent != nil {
		if err := opts.PostForkParent(cmd.Process.Pid); err != nil {
			return nil, errs.Wrap(err, errs.KindResource, "procfork.Fork")
		}
	}

	if err := bell.RingParent(); err != nil {
		return nil, err
	}
	pipe.Close()
	bell.Close()

	sig, err := NewPidSignature(cmd.Process.Pid)
	if err != nil {
		// The child may already have run to completion by the time we
		// read its signature; that's not a Fork failure.
		sig = &PidSignature{Pid: cmd.Process.Pid}
	}

	return &Result{Pid: cmd.Process.Pid, Cmd: cmd, Signature: sig}, nil
}

func blacklistContains(set *fdset.Set, fd int) bool {
	found := false
	set.Visit(func(r fdset.Range) int {
		if fd >= r.Lhs && fd <= r.Rhs {
			found = true
			return 1
		}
		return 0
	})
	return found
}
