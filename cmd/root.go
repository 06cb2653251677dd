// Package cmd implements the ertgod CLI commands.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ertgo/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags.
var (
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

var rootCmd = &cobra.Command{
	Use:   "ertgod",
	Short: "POSIX process/signal/fd support daemon harness",
	Long: `ertgod exercises the fd-range set, clock, signal-dispatch,
error-frame, deadline, structured-fork and application-lock primitives
through a small set of subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

func setupLogging() {
	if globalLogFormat != "json" && globalLog == "" && !globalDebug {
		return
	}

	output := os.Stderr
	if globalLog != "" {
		if f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			output = f
		}
	}

	level := slog.LevelInfo
	if globalDebug {
		level = slog.LevelDebug
	}

	logger := logging.NewLogger(logging.Config{
		Level:  level,
		Format: globalLogFormat,
		Output: output,
	})
	logging.SetDefault(logger)
}
