// Package procfork implements structured fork on top of a re-exec of
// the running binary, the Go translation of original_source's
// ert_forkProcessChild protocol.
//
// A real fork(2) that does not immediately exec is unsafe in a
// multi-threaded Go process: only the calling goroutine's OS thread
// survives into the child, while every lock, buffered channel and
// runtime-internal goroutine the other threads were holding does not,
// and the Go runtime itself assumes a stable thread pool. This package
// therefore forks by re-executing the current binary (os.Executable,
// matching kornnellio-runc-Go's container/create.go), which starts the
// child with a clean goroutine pool of its own. The part of the
// protocol that must run inside the child after the fork point
// (postForkChild and the fork method itself) cannot be expressed as a
// Go closure, because a closure cannot survive an exec(2) boundary; it
// is instead a named function registered ahead of time with
// RegisterEntrypoint and looked up by name once the re-exec'd process
// starts, the same "reexec" idiom Docker/libcontainer use for
// namespace setup helpers.
package procfork

import (
	"os"
	"os/exec"

	"ertgo/fdset"
)

// PgrpOption selects how the child's process group membership is set
// up relative to the parent.
type PgrpOption int

const (
	// InheritPgrp leaves the child in the parent's process group.
	InheritPgrp PgrpOption = iota
	// SetPgrp places the child into a new process group (or Pgid, if
	// nonzero).
	SetPgrp
	// SetSessionLeader makes the child a session leader via setsid(2).
	SetSessionLeader
)

// PreForkFunc lets the caller populate the whitelist/blacklist fd sets
// before the child is started. Both sets describe fds by number; a
// whitelisted fd that the caller also wants passed to the child must
// additionally appear in ExtraFiles, since re-exec does not inherit
// the parent's fd table implicitly the way fork(2) does.
type PreForkFunc func(whitelist, blacklist *fdset.Set) error

// PostForkParentFunc runs in the parent once the child has reported a
// successful pre-exec setup, receiving the child's pid.
type PostForkParentFunc func(childPid int) error

// Options configures a single Fork call.
type Options struct {
	Pgrp PgrpOption
	Pgid int

	PreFork        PreForkFunc
	PostForkParent PostForkParentFunc

	// Entrypoint is the name a function was registered under with
	// RegisterEntrypoint. It runs in the child in place of
	// original_source's postForkChild+fork pair: everything that must
	// execute after the fork point collapses into this one named
	// callback, since only named, re-exec-resolvable code survives the
	// exec boundary.
	Entrypoint string

	// ExtraFiles lists additional open files the child should inherit,
	// matching os/exec.Cmd.ExtraFiles (available to the child starting
	// at fd 3). They reach the child whether or not PreFork put them
	// in the whitelist; Fork does not add them to that set.
	ExtraFiles []*os.File

	// Env adds extra environment variables for the child, alongside
	// the ones procfork uses internally to carry the entrypoint name
	// and fd bookkeeping across the re-exec.
	Env map[string]string
}

// Result describes a successfully started child.
type Result struct {
	Pid       int
	Cmd       *exec.Cmd
	Signature *PidSignature
}
