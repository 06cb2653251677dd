package fdset

import (
	"errors"
	"testing"

	"ertgo/errs"
)

func assertRanges(t *testing.T, s *Set, want []Range) {
	t.Helper()
	got := s.Ranges()
	if len(got) != len(want) {
		t.Fatalf("Ranges() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Ranges() = %v, want %v", got, want)
		}
	}
}

func TestInsertSorted(t *testing.T) {
	s := New()
	if err := s.Insert(Range{10, 10}); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(Range{0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(Range{5, 5}); err != nil {
		t.Fatal(err)
	}
	assertRanges(t, s, []Range{{0, 0}, {5, 5}, {10, 10}})
}

func TestInsertMergesAbutting(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 2})
	mustInsert(t, s, Range{4, 6})
	mustInsert(t, s, Range{3, 3}) // abuts both sides
	assertRanges(t, s, []Range{{0, 6}})
}

func TestInsertOverlapFails(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 5})
	err := s.Insert(Range{3, 8})
	if err == nil {
		t.Fatal("expected EEXIST-equivalent error")
	}
	if !errors.Is(err, errs.ErrFdRangeExists) {
		t.Errorf("error = %v, want ErrFdRangeExists", err)
	}
}

func TestInsertTwiceFails(t *testing.T) {
	s := New()
	r := Range{2, 2}
	mustInsert(t, s, r)
	if err := s.Insert(r); err == nil {
		t.Fatal("second identical insert should fail with EEXIST")
	}
}

func TestInsertThenRemoveIsIdentity(t *testing.T) {
	s := New()
	r := Range{4, 9}
	mustInsert(t, s, r)
	if err := s.Remove(r); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	assertRanges(t, s, nil)
}

func TestRemoveNotCoveredFails(t *testing.T) {
	s := New()
	err := s.Remove(Range{0, 1})
	if !errors.Is(err, errs.ErrFdRangeNotFound) {
		t.Errorf("error = %v, want ErrFdRangeNotFound", err)
	}
}

func TestRemoveSplitsInterior(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 10})
	if err := s.Remove(Range{4, 6}); err != nil {
		t.Fatal(err)
	}
	assertRanges(t, s, []Range{{0, 3}, {7, 10}})
}

func TestRemoveTrimsLeftAndRight(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 10})
	if err := s.Remove(Range{0, 3}); err != nil {
		t.Fatal(err)
	}
	assertRanges(t, s, []Range{{4, 10}})

	s2 := New()
	mustInsert(t, s2, Range{0, 10})
	if err := s2.Remove(Range{7, 10}); err != nil {
		t.Fatal(err)
	}
	assertRanges(t, s2, []Range{{0, 6}})
}

func TestInvertInvolutive(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{2, 4})
	mustInsert(t, s, Range{10, 20})

	orig := s.Ranges()
	s.Invert()
	s.Invert()
	assertRanges(t, s, orig)
}

func TestInvertEmptySet(t *testing.T) {
	s := New()
	s.Invert()
	assertRanges(t, s, []Range{{0, MaxFd}})
}

func TestInvertEndingAtMax(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{5, MaxFd})
	s.Invert()
	assertRanges(t, s, []Range{{0, 4}})
}

// TestVisitorHaltsEarly is end-to-end scenario 4: insert {[0,0],[2,2],
// [4,4]}, visit halting once the callback observes value 2.
func TestVisitorHaltsEarly(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 0})
	mustInsert(t, s, Range{2, 2})
	mustInsert(t, s, Range{4, 4})

	next := 0
	n := s.Visit(func(r Range) int {
		if r.Lhs != next {
			t.Fatalf("visit order wrong: got %d, want %d", r.Lhs, next)
		}
		if next == 2 {
			return 1
		}
		next = r.Lhs + 2
		return 0
	})
	if n != 2 {
		t.Errorf("Visit() = %d, want 2", n)
	}
	if next != 2 {
		t.Errorf("next = %d, want 2", next)
	}
}

func TestVisitorCallbackError(t *testing.T) {
	s := New()
	mustInsert(t, s, Range{0, 0})
	mustInsert(t, s, Range{1, 1})

	n := s.Visit(func(r Range) int { return -1 })
	if n != -1 {
		t.Errorf("Visit() = %d, want -1", n)
	}
}

func mustInsert(t *testing.T, s *Set, r Range) {
	t.Helper()
	if err := s.Insert(r); err != nil {
		t.Fatalf("Insert(%v) error = %v", r, err)
	}
}
