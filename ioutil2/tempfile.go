package ioutil2

import (
	"os"

	"ertgo/errs"
)

// TempFile creates a process-local temp file in dir, or, when dir is
// empty, in os.TempDir (which honors TMPDIR).
func TempFile(dir, pattern string) (*os.File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindResource, "ioutil2.TempFile")
	}
	return f, nil
}
