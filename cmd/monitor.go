package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ertgo/procstat"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Raw-mode terminal view of this process's state and the machine's boot id",
	Args:  cobra.NoArgs,
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return printMonitorSnapshot()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	if err := printMonitorSnapshot(); err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, "\r\npress q to quit\r\n")
	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return err
		}
		if b == 'q' || b == 'Q' || b == 3 {
			return nil
		}
	}
}

func printMonitorSnapshot() error {
	st, err := procstat.FetchState(os.Getpid())
	if err != nil {
		return err
	}
	bootID, err := procstat.BootID()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "pid %d state=%s boot=%s\r\n", os.Getpid(), st, bootID)
	return nil
}
