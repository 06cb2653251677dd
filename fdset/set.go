package fdset

import (
	"sort"

	"ertgo/errs"
)

// Set is an ordered collection of pairwise-disjoint, non-abutting
// Ranges, sorted by Lhs.
type Set struct {
	ranges []Range
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Len returns the number of ranges currently held.
func (s *Set) Len() int {
	return len(s.ranges)
}

// Ranges returns a copy of the set's ranges in ascending order.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// indexFloor returns the index of the range whose Lhs is the largest
// Lhs not greater than lhs, or -1 if none exists.
func (s *Set) indexFloor(lhs int) int {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Lhs > lhs
	})
	return i - 1
}

// Insert adds r to the set, merging with abutting neighbours.
// Fails with errs.ErrFdRangeExists if r overlaps an existing range.
func (s *Set) Insert(r Range) error {
	i := s.indexFloor(r.Lhs)

	// Check overlap against the candidate left neighbour and the one
	// immediately after it. Contains only classifies nested overlaps
	// (one range wholly inside the other); a range that crosses a
	// neighbour's edge without containing or being contained by it
	// would slip past a Contains-only check, so disjointness is tested
	// directly instead: a neighbour must either sit strictly apart from
	// r (LeftOf/RightOf, gap of at least one fd) or abut it exactly
	// (LeftNeighbour/RightNeighbour, merged below).
	if i >= 0 {
		left := s.ranges[i]
		if !left.LeftOf(r) && !left.LeftNeighbour(r) {
			return errs.WrapDetail(errs.ErrFdRangeExists, errs.KindResource, "fdset.Insert", r.String())
		}
	}
	if i+1 < len(s.ranges) {
		right := s.ranges[i+1]
		if !r.LeftOf(right) && !r.LeftNeighbour(right) {
			return errs.WrapDetail(errs.ErrFdRangeExists, errs.KindResource, "fdset.Insert", r.String())
		}
	}

	merged := r
	rightIdx := i + 1
	removeFrom, removeTo := rightIdx, rightIdx

	if i >= 0 && s.ranges[i].LeftNeighbour(merged) {
		merged = s.ranges[i].merge(merged)
		removeFrom = i
	}
	if rightIdx < len(s.ranges) && merged.LeftNeighbour(s.ranges[rightIdx]) {
		merged = merged.merge(s.ranges[rightIdx])
		removeTo = rightIdx + 1
	}

	tail := append([]Range{}, s.ranges[removeTo:]...)
	s.ranges = append(s.ranges[:removeFrom], merged)
	s.ranges = append(s.ranges, tail...)
	return nil
}

// Remove deletes r from the set. The host range must strictly contain
// r (equal, subset, or edge-sharing); otherwise Remove fails with
// errs.ErrFdRangeNotFound.
func (s *Set) Remove(r Range) error {
	i := s.indexFloor(r.Lhs)
	if i < 0 {
		return errs.WrapDetail(errs.ErrFdRangeNotFound, errs.KindResource, "fdset.Remove", r.String())
	}
	host := s.ranges[i]
	switch host.Contains(r) {
	case Equal:
		s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
	case SharesLeftEdge:
		// Trim the host on the left: the remainder starts after r.
		s.ranges[i] = Range{Lhs: r.Rhs + 1, Rhs: host.Rhs}
	case SharesRightEdge:
		// Trim the host on the right.
		s.ranges[i] = Range{Lhs: host.Lhs, Rhs: r.Lhs - 1}
	case StrictSubset:
		left := Range{Lhs: host.Lhs, Rhs: r.Lhs - 1}
		right := Range{Lhs: r.Rhs + 1, Rhs: host.Rhs}
		s.ranges[i] = left
		tail := append([]Range{right}, s.ranges[i+1:]...)
		s.ranges = append(s.ranges[:i+1], tail...)
	default:
		return errs.WrapDetail(errs.ErrFdRangeNotFound, errs.KindResource, "fdset.Remove", r.String())
	}
	return nil
}

// Invert replaces the set with its complement over [0,MaxFd].
func (s *Set) Invert() {
	if len(s.ranges) == 0 {
		s.ranges = []Range{{Lhs: 0, Rhs: MaxFd}}
		return
	}

	var inverted []Range
	if s.ranges[len(s.ranges)-1].Rhs == MaxFd {
		// Walk right to left so the final (leftmost) gap, if any, is
		// appended last and then reversed into place.
		for i := len(s.ranges) - 1; i > 0; i-- {
			gapLhs := s.ranges[i-1].Rhs + 1
			gapRhs := s.ranges[i].Lhs - 1
			inverted = append(inverted, Range{Lhs: gapLhs, Rhs: gapRhs})
		}
		if s.ranges[0].Lhs > 0 {
			inverted = append(inverted, Range{Lhs: 0, Rhs: s.ranges[0].Lhs - 1})
		}
		sort.Slice(inverted, func(i, j int) bool { return inverted[i].Lhs < inverted[j].Lhs })
	} else {
		cursor := 0
		for _, r := range s.ranges {
			if r.Lhs > cursor {
				inverted = append(inverted, Range{Lhs: cursor, Rhs: r.Lhs - 1})
			}
			cursor = r.Rhs + 1
		}
		inverted = append(inverted, Range{Lhs: cursor, Rhs: MaxFd})
	}
	s.ranges = inverted
}

// VisitFunc is called once per range in ascending order. Returning a
// non-zero value stops the visit early: +1 stops normally, any other
// non-zero value is treated as a callback error.
type VisitFunc func(r Range) int

// Visit iterates the set in ascending order, stopping early if fn
// returns non-zero. It returns the number of ranges visited, or -1 if
// fn returned a value other than 0 or +1 (a callback error).
func (s *Set) Visit(fn VisitFunc) int {
	for i, r := range s.ranges {
		switch fn(r) {
		case 0:
			continue
		case 1:
			return i + 1
		default:
			return -1
		}
	}
	return len(s.ranges)
}
