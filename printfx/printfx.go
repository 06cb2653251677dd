// Package printfx provides small fmt.Fprintf-based printers that report
// the number of bytes written, the way original_source's ert_printFdSet
// reports its own return value.
package printfx

import (
	"fmt"
	"io"
)

// Fprint writes each of the stringable values in order, separated by ", "
// and wrapped in curly braces, and returns the number of bytes written.
func Fprint(w io.Writer, items []fmt.Stringer) (int, error) {
	total, err := io.WriteString(w, "{")
	if err != nil {
		return total, err
	}
	for i, item := range items {
		if i > 0 {
			n, err := io.WriteString(w, ", ")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := io.WriteString(w, item.String())
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, "}")
	total += n
	return total, err
}
