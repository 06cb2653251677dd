package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ertgo/deadline"
	"ertgo/sigcont"
	"ertgo/sysclock"
)

var clockDuration time.Duration

var clockCmd = &cobra.Command{
	Use:   "clock-demo",
	Short: "Print the monotonic/event clocks, bootclock, and poll a deadline",
	Args:  cobra.NoArgs,
	RunE:  runClockDemo,
}

func init() {
	clockCmd.Flags().DurationVar(&clockDuration, "duration", 2*time.Second, "deadline duration to poll")
	rootCmd.AddCommand(clockCmd)
}

func runClockDemo(cmd *cobra.Command, args []string) error {
	fmt.Printf("monotonic: %s\n", sysclock.Monotonic())
	fmt.Printf("event:     %s\n", sysclock.Event())

	boot, err := sysclock.Bootclock()
	if err != nil {
		return err
	}
	fmt.Printf("bootclock: %s\n", boot)

	sigcont.Install()
	defer sigcont.Uninstall()

	dl := deadline.New(&clockDuration)
	poll := func() (bool, error) { return false, nil }
	wait := func(remaining time.Duration) error {
		if remaining <= 0 || remaining > 200*time.Millisecond {
			remaining = 200 * time.Millisecond
		}
		time.Sleep(remaining)
		return nil
	}

	for {
		ready, err := dl.CheckExpired(poll, wait)
		if ready {
			fmt.Println("deadline: ready")
			return nil
		}
		if err != nil {
			fmt.Printf("deadline: %v\n", err)
			return nil
		}
	}
}
