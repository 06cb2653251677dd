package fdset

import (
	"fmt"
	"io"

	"ertgo/printfx"
)

// Fprint writes the set's ranges to w in ascending order and returns
// the number of bytes written, mirroring ert_printFdSet's signature.
func (s *Set) Fprint(w io.Writer) (int, error) {
	items := make([]fmt.Stringer, len(s.ranges))
	for i, r := range s.ranges {
		items[i] = r
	}
	return printfx.Fprint(w, items)
}
