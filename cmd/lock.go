package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ertgo/applock"
	"ertgo/envcfg"
)

var lockCmd = &cobra.Command{
	Use:   "lock-demo",
	Short: "Acquire and release the application lock twice, nested",
	Args:  cobra.NoArgs,
	RunE:  runLockDemo,
}

func init() {
	rootCmd.AddCommand(lockCmd)
}

func runLockDemo(cmd *cobra.Command, args []string) error {
	path := filepath.Join(envcfg.TempDir(), "ertgod-app.lock")

	lock, err := applock.New(path)
	if err != nil {
		return err
	}
	defer lock.Close()

	if err := lock.Acquire(); err != nil {
		return err
	}
	fmt.Printf("acquired, count=%d\n", lock.Count())

	if err := lock.Acquire(); err != nil {
		return err
	}
	fmt.Printf("re-acquired (nested), count=%d\n", lock.Count())

	if err := lock.Release(); err != nil {
		return err
	}
	fmt.Printf("released one level, count=%d\n", lock.Count())

	if err := lock.Release(); err != nil {
		return err
	}
	fmt.Printf("released, count=%d\n", lock.Count())
	return nil
}
