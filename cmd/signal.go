package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ertgo/logging"
	"ertgo/sigdispatch"
)

var signalTimeout time.Duration

var signalCmd = &cobra.Command{
	Use:   "signal-demo",
	Short: "Install a SIGUSR1/SIGHUP handler and wait to observe delivery",
	Args:  cobra.NoArgs,
	RunE:  runSignalDemo,
}

func init() {
	signalCmd.Flags().DurationVar(&signalTimeout, "timeout", 30*time.Second, "how long to wait before giving up")
	rootCmd.AddCommand(signalCmd)
}

func runSignalDemo(cmd *cobra.Command, args []string) error {
	fmt.Printf("pid %d waiting for SIGUSR1 or SIGHUP (send: kill -USR1 %d)\n", os.Getpid(), os.Getpid())

	done := make(chan os.Signal, 1)
	handler := func(sig os.Signal) {
		logging.Info("signal-demo: received signal", "signal", sig.String(), "depth", sigdispatch.ContextDepth())
		done <- sig
	}

	if _, err := sigdispatch.Change(syscall.SIGUSR1, handler, sigdispatch.Options{}); err != nil {
		return err
	}
	if _, err := sigdispatch.Change(syscall.SIGHUP, handler, sigdispatch.Options{}); err != nil {
		return err
	}
	defer sigdispatch.Reset()

	select {
	case sig := <-done:
		fmt.Printf("observed %s\n", sig)
	case <-time.After(signalTimeout):
		return fmt.Errorf("timed out after %s without receiving a signal", signalTimeout)
	}
	return nil
}
