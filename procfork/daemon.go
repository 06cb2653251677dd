package procfork

import (
	"os"
	"strconv"
	"syscall"

	"ertgo/errs"
	"ertgo/logging"
)

// guardianEntrypointName is procfork's own internal entrypoint,
// registered below, used only by ForkDaemon.
const guardianEntrypointName = "ertgo.procfork.daemonGuardian"

const (
	envDaemonSockFd     = "ERTGO_FORK_DAEMON_SOCK_FD"
	envDaemonEntrypoint = "ERTGO_FORK_DAEMON_ENTRYPOINT"
)

func init() {
	RegisterEntrypoint(guardianEntrypointName, runDaemonGuardian)
}

// ForkDaemon implements original_source's forkProcessDaemon: it forks
// a guardian child, which itself forks the real daemon (running
// entrypoint) as a grandchild, stops the daemon, and exits. The
// guardian's exit orphans the daemon's process group; POSIX requires
// the kernel to deliver SIGHUP+SIGCONT to every stopped member of a
// process group that becomes orphaned this way, which both resumes the
// daemon and tells it its controlling terminal is gone. The guardian
// reports the daemon's pid back to this call over a socketpair, since
// the guardian's own exit status (a single byte) cannot carry a full
// pid.
func ForkDaemon(entrypoint string) (*PidSignature, error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindResource, "procfork.ForkDaemon")
	}
	parentSock := os.NewFile(uintptr(fds[0]), "daemon-pid-parent")
	childSock := os.NewFile(uintptr(fds[1]), "daemon-pid-child")
	defer parentSock.Close()

	result, err := Fork(Options{
		Entrypoint: guardianEntrypointName,
		ExtraFiles: []*os.File{childSock},
		Env: map[string]string{
			envDaemonSockFd:     "3",
			envDaemonEntrypoint: entrypoint,
		},
	})
	childSock.Close()
	if err != nil {
		return nil, err
	}

	// The guardian exits as soon as it has reported the daemon pid; it
	// is not itself long lived.
	if _, err := result.Cmd.Process.Wait(); err != nil {
		logging.Error("procfork: guardian wait failed", "error", err)
	}

	sig, err := RecvPidSignature(parentSock)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProtocol, "procfork.ForkDaemon")
	}
	return sig, nil
}

// runDaemonGuardian is the guardian's entrypoint: it runs inside the
// re-exec'd guardian process, forks the daemon grandchild, stops it,
// and reports its signature to the original caller before exiting.
func runDaemonGuardian() int {
	sockFd, err := strconv.Atoi(os.Getenv(envDaemonSockFd))
	if err != nil {
		logging.Error("procfork: guardian could not recover pid socket fd", "error", err)
		return 1
	}
	sock := os.NewFile(uintptr(sockFd), "daemon-pid-child")
	defer sock.Close()

	daemonEntrypoint := os.Getenv(envDaemonEntrypoint)

	result, err := Fork(Options{
		Entrypoint: daemonEntrypoint,
		Pgrp:       SetSessionLeader,
	})
	if err != nil {
		logging.Error("procfork: guardian could not fork daemon", "error", err)
		return 1
	}

	if err := result.Cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		logging.Error("procfork: guardian could not stop daemon", "error", err)
		return 1
	}

	if err := result.Signature.Send(sock); err != nil {
		logging.Error("procfork: guardian could not report daemon signature", "error", err)
		return 1
	}

	return 0
}
