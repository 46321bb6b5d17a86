package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ampductl/config"
	"github.com/sarchlab/ampductl/simulation"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario to its horizon and write the reports",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}

	runCmd.Flags().StringP("config", "c", "", "scenario file (YAML)")
	runCmd.Flags().StringP("output", "o", "", "report file prefix")
	runCmd.Flags().Bool("monitor", false, "serve the HTTP monitor during the run")
	runCmd.Flags().Int("monitor-port", 0, "port of the HTTP monitor, 0 for random")
	_ = runCmd.MarkFlagRequired("config")

	return runCmd
}

func runScenario(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	configured, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	level, err := logLevel(cmd, configured)
	if err != nil {
		return err
	}

	logger := newLogger(level)
	slog.SetDefault(logger)

	builder := simulation.MakeBuilder().
		WithConfig(cfg).
		WithLogger(logger)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		builder = builder.WithOutputFileName(output)
	}

	if monitor, _ := cmd.Flags().GetBool("monitor"); monitor {
		builder = builder.WithMonitoring()
	}

	if cmd.Flags().Changed("monitor-port") {
		port, _ := cmd.Flags().GetInt("monitor-port")
		builder = builder.WithMonitoring().WithMonitorPort(port)
	}

	s, err := builder.Build()
	if err != nil {
		return err
	}

	logger.Info("simulation started",
		"id", s.ID(),
		"time", cfg.Simulation.Time,
		"dynamic", cfg.DynamicEnabled(),
		"disable_on_voice", cfg.Aggregation.DisableOnVoice)

	err = s.Run()
	if err != nil {
		_ = s.Terminate()
		return err
	}

	return s.Terminate()
}
