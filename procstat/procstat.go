// Package procstat reads process and system state from /proc, the Go
// translation of original_source's process-state and boot-incarnation
// lookups in process.c and system.c.
package procstat

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"ertgo/errs"
)

// State mirrors the single-character state field in /proc/<pid>/stat.
type State int

const (
	StateError State = iota
	StateRunning
	StateSleeping
	StateWaiting
	StateZombie
	StateStopped
	StateTraced
	StateDead
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	case StateWaiting:
		return "waiting"
	case StateZombie:
		return "zombie"
	case StateStopped:
		return "stopped"
	case StateTraced:
		return "traced"
	case StateDead:
		return "dead"
	default:
		return "error"
	}
}

// FetchState reads /proc/<pid>/stat and returns the process's current
// state. The comm field can itself contain spaces and parentheses, so
// this walks backward from the end of the line looking for the last
// ") " the same way ert_fetchProcessState does, rather than splitting
// on whitespace from the front.
func FetchState(pid int) (State, error) {
	path := fmt.Sprintf("/proc/%d/stat", pid)
	buf, err := os.ReadFile(path)
	if err != nil {
		return StateError, errs.Wrap(err, errs.KindIO, "procstat.FetchState")
	}

	idx := bytes.LastIndexByte(buf, ')')
	if idx < 0 || idx+2 >= len(buf) || buf[idx+1] != ' ' {
		return StateError, errs.New(errs.KindProtocol, "procstat.FetchState", "malformed stat line")
	}

	switch buf[idx+2] {
	case 'R':
		return StateRunning, nil
	case 'S':
		return StateSleeping, nil
	case 'D':
		return StateWaiting, nil
	case 'Z':
		return StateZombie, nil
	case 'T':
		return StateStopped, nil
	case 't':
		return StateTraced, nil
	case 'X':
		return StateDead, nil
	default:
		return StateError, errs.New(errs.KindProtocol, "procstat.FetchState", "unrecognised state char")
	}
}

// StartTime returns field 22 (starttime, in clock ticks since boot) of
// /proc/<pid>/stat, the value original_source's PidSignature uses to
// detect pid reuse: a recycled pid almost never has the same start
// time as the process the caller originally observed.
func StartTime(pid int) (uint64, error) {
	path := fmt.Sprintf("/proc/%d/stat", pid)
	buf, err := os.ReadFile(path)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindIO, "procstat.StartTime")
	}

	idx := bytes.LastIndexByte(buf, ')')
	if idx < 0 {
		return 0, errs.New(errs.KindProtocol, "procstat.StartTime", "malformed stat line")
	}

	fields := strings.Fields(string(buf[idx+1:]))
	// fields[0] is the state char (field 3 overall); starttime is field
	// 22 overall, i.e. fields[19] (22 - 3).
	const startTimeOffset = 19
	if len(fields) <= startTimeOffset {
		return 0, errs.New(errs.KindProtocol, "procstat.StartTime", "stat line too short")
	}

	v, err := strconv.ParseUint(fields[startTimeOffset], 10, 64)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindProtocol, "procstat.StartTime")
	}
	return v, nil
}

var (
	bootIDOnce sync.Once
	bootID     string
	bootIDErr  error
)

// BootID returns the kernel's randomly generated boot identifier,
// cached for the life of the process. It changes once per boot, so it
// is suitable as a coarse "has the machine rebooted" check, the Go
// analogue of fetchSystemIncarnation_'s reading of
// /proc/sys/kernel/random/boot_id.
func BootID() (string, error) {
	bootIDOnce.Do(func() {
		buf, err := os.ReadFile("/proc/sys/kernel/random/boot_id")
		if err != nil {
			bootIDErr = errs.Wrap(err, errs.KindIO, "procstat.BootID")
			return
		}
		bootID = strings.TrimSpace(string(buf))
		if bootID == "" {
			bootIDErr = errs.New(errs.KindProtocol, "procstat.BootID", "empty boot id")
		}
	})
	return bootID, bootIDErr
}
