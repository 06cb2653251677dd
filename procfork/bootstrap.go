package procfork

import (
	"os"
	"os/signal"

	"ertgo/errs"
	"ertgo/ioutil2"
)

func adoptPipe(writerFd int) *ioutil2.Pipe {
	return ioutil2.AdoptPipe(nil, os.NewFile(uintptr(writerFd), "fork-pipe-child"))
}

func adoptBell(fd int) *ioutil2.Bell {
	f := os.NewFile(uintptr(fd), "fork-bell-child")
	return ioutil2.AdoptBell(nil, f)
}

// bootstrapChild runs the part of original_source's
// forkProcessChild_PostChild_ that still applies once re-exec has
// already done the rest of the work for us:
//
//   - pgrp/session-leader setup happens at process-creation time via
//     the parent's exec.Cmd.SysProcAttr (Setpgid/Setsid), so there is
//     nothing left to do here;
//   - "close every fd not in the whitelist" is a side effect of
//     exec.Cmd only ever populating stdin/stdout/stderr and
//     ExtraFiles in the child's fd table, so again nothing to do;
//   - "re-seed the PRNG with the child's pid" doesn't apply either:
//     the child is a freshly exec'd process image, not a copied
//     address space, so there is no stale PRNG state inherited from
//     the parent to begin with.
//
// What remains is resetting any signal dispositions the child's own
// package init functions may have installed before
// RunEntrypointIfRequested ran, back to their defaults.
func bootstrapChild(pipe *ioutil2.Pipe, bell *ioutil2.Bell) error {
	if pipe.Writer() == nil {
		return errs.New(errs.KindProtocol, "procfork.bootstrapChild", "missing fork pipe write end")
	}
	if bell.ChildFile() == nil {
		return errs.New(errs.KindProtocol, "procfork.bootstrapChild", "missing fork bell child end")
	}

	signal.Reset()
	return nil
}
