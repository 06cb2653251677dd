package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ertgo/errframe"
)

var frameCmd = &cobra.Command{
	Use:   "frame-demo",
	Short: "Build an error-frame sequence, freeze it, thaw it, and print both",
	Args:  cobra.NoArgs,
	RunE:  runFrameDemo,
}

func init() {
	rootCmd.AddCommand(frameCmd)
}

func runFrameDemo(cmd *cobra.Command, args []string) error {
	errframe.Restart()

	if err := innerFrameStep(); err != nil {
		var fe *frameErr
		if errors.As(err, &fe) {
			errframe.Add("cmd/frame.go", 0, "runFrameDemo", "inner step failed", fe.errno)
		}
	}

	fmt.Println("live sequence:")
	for i, f := range errframe.Frames() {
		fmt.Printf("  #%d %s:%d %s: %s (errno=%d)\n", i, f.File, f.Line, f.Func, f.Desc, f.Errno)
	}

	var buf bytes.Buffer
	if _, err := errframe.Freeze(&buf); err != nil {
		return err
	}

	if err := errframe.Thaw(&buf); err == nil {
		return errors.New("thaw of a failure sequence should report an error")
	} else {
		fmt.Printf("thaw reported: %v\n", err)
	}

	return nil
}

type frameErr struct {
	errno int
}

func (e *frameErr) Error() string { return "synthetic failure" }

func innerFrameStep() error {
	errframe.Add("cmd/frame.go", 0, "innerFrameStep", "synthetic EIO", int(frameErrno))
	return &frameErr{errno: frameErrno}
}

const frameErrno = 5 // EIO
