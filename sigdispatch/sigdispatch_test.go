package sigdispatch

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestChangeRejectsRestart(t *testing.T) {
	defer Reset()
	_, err := Change(syscall.SIGUSR1, func(os.Signal) {}, Options{Restart: true})
	if err == nil {
		t.Fatal("Change() with Restart should fail")
	}
}

func TestChangeReturnsPreviousHandler(t *testing.T) {
	defer Reset()

	first := func(os.Signal) {}
	prev, err := Change(syscall.SIGUSR1, first, Options{})
	if err != nil {
		t.Fatalf("Change() error = %v", err)
	}
	if prev != nil {
		t.Error("first Change() should report no previous handler")
	}

	second := func(os.Signal) {}
	prev, err = Change(syscall.SIGUSR1, second, Options{})
	if err != nil {
		t.Fatalf("Change() error = %v", err)
	}
	if prev == nil {
		t.Error("second Change() should report the first handler")
	}
}

func TestDispatchInvokesHandler(t *testing.T) {
	defer Reset()

	var mu sync.Mutex
	var got os.Signal
	done := make(chan struct{})

	_, err := Change(syscall.SIGUSR1, func(sig os.Signal) {
		mu.Lock()
		got = sig
		mu.Unlock()
		close(done)
	}, Options{})
	if err != nil {
		t.Fatalf("Change() error = %v", err)
	}

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if got != syscall.SIGUSR1 {
		t.Errorf("got = %v, want SIGUSR1", got)
	}
}

func TestContextDepthTracksDispatch(t *testing.T) {
	defer Reset()

	observed := make(chan int, 1)
	_, err := Change(syscall.SIGUSR2, func(os.Signal) {
		observed <- ContextDepth()
	}, Options{})
	if err != nil {
		t.Fatalf("Change() error = %v", err)
	}

	if ContextDepth() != 0 {
		t.Fatalf("ContextDepth() = %d, want 0 before dispatch", ContextDepth())
	}

	syscall.Kill(os.Getpid(), syscall.SIGUSR2)

	select {
	case d := <-observed:
		if d != 1 {
			t.Errorf("ContextDepth() during dispatch = %d, want 1", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	deadline := time.Now().Add(time.Second)
	for ContextDepth() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("ContextDepth() never returned to 0 after dispatch")
		}
		time.Sleep(time.Millisecond)
	}
}
