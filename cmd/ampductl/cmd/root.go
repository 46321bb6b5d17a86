// Package cmd provides the command-line interface of ampductl.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ampductl",
		Short: "ampductl runs adaptive A-MPDU aggregation scenarios.",
		Long: `ampductl runs a scenario of access points and stations through the ` +
			`association tracker, the KPI aggregator and the dynamic aggregation ` +
			`controller, and writes the resulting reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "",
		"override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(), newValidateCmd(), newLawsCmd())

	return rootCmd
}

// Execute runs the command line and exits. Registered exit handlers, such as
// report flushers, run before the process ends.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		slog.Error("ampductl failed", "error", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
}

func logLevel(cmd *cobra.Command, configured slog.Level) (slog.Level, error) {
	override, err := cmd.Flags().GetString("log-level")
	if err != nil || override == "" {
		return configured, err
	}

	var level slog.Level

	err = level.UnmarshalText([]byte(override))

	return level, err
}
