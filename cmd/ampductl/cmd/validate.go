package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ampductl/config"
)

func newValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario file without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			law, err := cfg.Law()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", path)
			fmt.Fprintf(out, "  access points: %d\n", len(cfg.Topology.APs))
			fmt.Fprintf(out, "  stations:      %d\n", len(cfg.Topology.Stations))
			fmt.Fprintf(out, "  events:        %d\n", len(cfg.Topology.Events))

			if cfg.DynamicEnabled() {
				fmt.Fprintf(out, "  controller:    %s, budget %gs, every %gs\n",
					law, cfg.Aggregation.Budget, cfg.Aggregation.Interval)
			} else {
				fmt.Fprintln(out, "  controller:    off")
			}

			return nil
		},
	}

	validateCmd.Flags().StringP("config", "c", "", "scenario file (YAML)")
	_ = validateCmd.MarkFlagRequired("config")

	return validateCmd
}
