package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ampductl/control"
)

func newLawsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "laws",
		Short: "List the control laws and their selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)

			fmt.Fprintln(tw, "LAW\tNAME\tDESCRIPTION")
			for _, law := range control.Laws {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", int(law), law, law.Description())
			}

			return tw.Flush()
		},
	}
}
