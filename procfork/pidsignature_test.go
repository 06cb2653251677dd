package procfork

import (
	"bytes"
	"os"
	"testing"
)

func TestPidSignatureSendRecvRoundTrip(t *testing.T) {
	sig, err := NewPidSignature(os.Getpid())
	if err != nil {
		t.Fatalf("NewPidSignature() error = %v", err)
	}

	var buf bytes.Buffer
	if err := sig.Send(&buf); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got, err := RecvPidSignature(&buf)
	if err != nil {
		t.Fatalf("RecvPidSignature() error = %v", err)
	}
	if sig.Rank(got) != 0 {
		t.Errorf("Rank() = %d, want 0 for round-tripped signature", sig.Rank(got))
	}
}

func TestRankDetectsPidReuse(t *testing.T) {
	a := &PidSignature{Pid: 100, StartTime: 5}
	b := &PidSignature{Pid: 100, StartTime: 9}
	if a.Rank(b) == 0 {
		t.Error("signatures with the same pid but different start times should not rank equal")
	}
}

func TestRankNilHandling(t *testing.T) {
	a := &PidSignature{Pid: 1, StartTime: 1}
	if a.Rank(nil) <= 0 {
		t.Error("a non-nil signature should rank above nil")
	}
	if (*PidSignature)(nil).Rank(a) >= 0 {
		t.Error("nil should rank below a non-nil signature")
	}
}
