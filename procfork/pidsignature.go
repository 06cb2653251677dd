package procfork

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ertgo/errs"
	"ertgo/procstat"
)

// PidSignature pairs a pid with its process start time, the Go shape
// of pidsignature_.h's struct PidSignature. Comparing signatures
// rather than bare pids is what lets a caller holding a pid learn
// whether that pid has since been recycled by the kernel and reused
// by an unrelated process.
type PidSignature struct {
	Pid       int
	StartTime uint64
}

// NewPidSignature reads pid's current start time from /proc and
// returns its signature.
func NewPidSignature(pid int) (*PidSignature, error) {
	start, err := procstat.StartTime(pid)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindIO, "procfork.NewPidSignature")
	}
	return &PidSignature{Pid: pid, StartTime: start}, nil
}

// String renders the signature as "pid@starttime".
func (s *PidSignature) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d@%d", s.Pid, s.StartTime)
}

// Rank compares two signatures for equality of identity: same pid and
// same start time. A pid match with a differing start time means the
// original process exited and the pid was recycled.
func (s *PidSignature) Rank(other *PidSignature) int {
	switch {
	case s == nil && other == nil:
		return 0
	case s == nil:
		return -1
	case other == nil:
		return 1
	case s.Pid != other.Pid:
		return s.Pid - other.Pid
	case s.StartTime != other.StartTime:
		if s.StartTime < other.StartTime {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Send writes the signature as a single line of "pid starttime".
func (s *PidSignature) Send(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d %d\n", s.Pid, s.StartTime)
	if err != nil {
		return errs.Wrap(err, errs.KindIO, "procfork.PidSignature.Send")
	}
	return nil
}

// RecvPidSignature reads a signature written by Send.
func RecvPidSignature(r io.Reader) (*PidSignature, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return nil, errs.Wrap(err, errs.KindIO, "procfork.RecvPidSignature")
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, errs.New(errs.KindProtocol, "procfork.RecvPidSignature", "malformed pid signature line")
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProtocol, "procfork.RecvPidSignature")
	}
	start, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindProtocol, "procfork.RecvPidSignature")
	}
	return &PidSignature{Pid: pid, StartTime: start}, nil
}
