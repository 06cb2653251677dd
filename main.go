// ertgod exercises fd-range sets, clocks, signal dispatch, error
// frames, deadlines, structured fork, and the application lock through
// a small cobra CLI.
package main

import (
	"fmt"
	"os"

	"ertgo/cmd"
	"ertgo/procfork"
)

func main() {
	// Every re-exec'd fork child lands here first; if this process was
	// started by procfork.Fork, dispatch straight to its registered
	// entrypoint and never reach the cobra command tree.
	if procfork.RunEntrypointIfRequested() {
		return
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ertgod: %v\n", err)
		os.Exit(1)
	}
}
