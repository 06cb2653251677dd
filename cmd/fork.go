package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ertgo/procfork"
)

const forkDemoEntrypoint = "ertgod.fork-demo.child"

func init() {
	procfork.RegisterEntrypoint(forkDemoEntrypoint, runForkDemoChild)
}

var forkCmd = &cobra.Command{
	Use:   "fork-demo",
	Short: "Fork a child via re-exec and report its pid signature",
	Args:  cobra.NoArgs,
	RunE:  runForkDemo,
}

func init() {
	rootCmd.AddCommand(forkCmd)
}

func runForkDemo(cmd *cobra.Command, args []string) error {
	result, err := procfork.Fork(procfork.Options{
		Entrypoint: forkDemoEntrypoint,
		PostForkParent: func(pid int) error {
			fmt.Printf("parent observed child pid %d\n", pid)
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("forked %s\n", result.Signature)

	state, err := result.Cmd.Process.Wait()
	if err != nil {
		return err
	}
	fmt.Printf("child exited with status %d\n", state.ExitCode())
	return nil
}

func runForkDemoChild() int {
	fmt.Printf("child pid %d running\n", os.Getpid())
	return 0
}
