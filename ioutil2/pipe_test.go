package ioutil2

import "testing"

func TestPipeSendRecvSuccess(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer p.Close()

	done := make(chan error, 1)
	go func() {
		done <- p.Recv()
	}()

	if err := p.Send(nil); err != nil {
		t.Fatalf("Send(nil) error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Recv() = %v, want nil", err)
	}
}

func TestPipeSendRecvFailure(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer p.Close()

	done := make(chan error, 1)
	go func() {
		done <- p.Recv()
	}()

	sendErr := errTestFailure{"setup failed"}
	if err := p.Send(sendErr); err != nil {
		t.Fatalf("Send(err) error = %v", err)
	}

	recvErr := <-done
	if recvErr == nil {
		t.Fatal("Recv() = nil, want non-nil error")
	}
}

type errTestFailure struct{ msg string }

func (e errTestFailure) Error() string { return e.msg }

func TestPipeCloseIdempotent(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	p.Close()
	p.Close() // must not panic
}

func TestPipeString(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer p.Close()

	if s := p.String(); s == "" {
		t.Error("String() returned empty")
	}
}
