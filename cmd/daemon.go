package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ertgo/procfork"
)

const daemonDemoEntrypoint = "ertgod.daemon-demo.child"

func init() {
	procfork.RegisterEntrypoint(daemonDemoEntrypoint, runDaemonDemoChild)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon-demo",
	Short: "Fork a detached daemon grandchild via the guardian protocol",
	Args:  cobra.NoArgs,
	RunE:  runDaemonDemo,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemonDemo(cmd *cobra.Command, args []string) error {
	sig, err := procfork.ForkDaemon(daemonDemoEntrypoint)
	if err != nil {
		return err
	}
	fmt.Printf("daemon running detached as %s\n", sig)
	return nil
}

func runDaemonDemoChild() int {
	time.Sleep(time.Hour)
	return 0
}
