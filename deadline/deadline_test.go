package deadline

import (
	"testing"
	"time"
)

func notReady() (bool, error) { return false, nil }

func TestCheckExpiredEventuallyExpires(t *testing.T) {
	d := 30 * time.Millisecond
	dl := New(&d)

	noopWait := func(remaining time.Duration) error {
		if remaining > 0 && remaining < 5*time.Millisecond {
			time.Sleep(remaining)
		} else if remaining != 0 {
			time.Sleep(2 * time.Millisecond)
		}
		return nil
	}

	start := time.Now()
	var gotErr error
	for i := 0; i < 1000; i++ {
		ready, err := dl.CheckExpired(notReady, noopWait)
		if ready {
			t.Fatal("never ready, should not report ready")
		}
		if err != nil {
			gotErr = err
			break
		}
	}
	elapsed := time.Since(start)

	if gotErr == nil {
		t.Fatal("deadline never expired")
	}
	if elapsed < d {
		t.Errorf("elapsed = %v, want >= %v", elapsed, d)
	}
	if !dl.Expired() {
		t.Error("Expired() should be true after expiry")
	}
}

func TestCheckExpiredReadyShortCircuits(t *testing.T) {
	d := time.Hour
	dl := New(&d)

	ready, err := dl.CheckExpired(func() (bool, error) { return true, nil }, func(time.Duration) error {
		t.Fatal("wait should not be called when already ready")
		return nil
	})
	if err != nil {
		t.Fatalf("CheckExpired() error = %v", err)
	}
	if !ready {
		t.Error("CheckExpired() should report ready")
	}
}

func TestCheckExpiredNilDurationNeverExpires(t *testing.T) {
	dl := New(nil)

	for i := 0; i < 20; i++ {
		ready, err := dl.CheckExpired(notReady, func(time.Duration) error { return nil })
		if ready || err != nil {
			t.Fatalf("CheckExpired() = (%v, %v), want (false, nil)", ready, err)
		}
	}
}
