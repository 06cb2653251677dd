package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ertgo/fdset"
)

var fdsetCmd = &cobra.Command{
	Use:   "fdset [ranges...]",
	Short: "Build an fd-range set from lhs:rhs pairs and print it",
	Long: `Each argument is "lhs:rhs" (a closed range) or a bare fd number.
Ranges are inserted in order; fdset prints the resulting merged set and
its complement over [0,MaxFd].`,
	RunE: runFdset,
}

func init() {
	rootCmd.AddCommand(fdsetCmd)
}

func runFdset(cmd *cobra.Command, args []string) error {
	set := fdset.New()
	for _, arg := range args {
		r, err := parseRange(arg)
		if err != nil {
			return err
		}
		if err := set.Insert(r); err != nil {
			return err
		}
	}

	fmt.Fprint(os.Stdout, "set:    ")
	if _, err := set.Fprint(os.Stdout); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)

	set.Invert()
	fmt.Fprint(os.Stdout, "invert: ")
	if _, err := set.Fprint(os.Stdout); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)

	return nil
}

func parseRange(s string) (fdset.Range, error) {
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		lhs, err := strconv.Atoi(s[:idx])
		if err != nil {
			return fdset.Range{}, err
		}
		rhs, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return fdset.Range{}, err
		}
		return fdset.Range{Lhs: lhs, Rhs: rhs}, nil
	}

	fd, err := strconv.Atoi(s)
	if err != nil {
		return fdset.Range{}, err
	}
	return fdset.Range{Lhs: fd, Rhs: fd}, nil
}
