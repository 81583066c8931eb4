package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghalamif/ViewPulse/internal/adapters/table"
	"github.com/ghalamif/ViewPulse/internal/app/series"
)

func newTargetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "targets <published_at>",
		Short: "Print the milestone target instants for a publish time",
		Example: `  viewpulse targets 2024-01-15T16:50:00Z
  viewpulse targets "2024-03-09 22:00:00-05:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publish, ok := series.ParseInstant(args[0])
			if !ok {
				return fmt.Errorf("cannot parse publish instant %q", args[0])
			}
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			calc, err := cfg.Milestones.Calculator()
			if err != nil {
				return err
			}

			loc := calc.Location()
			fmt.Fprintf(cmd.OutOrStdout(), "published %s (%s %s)\n",
				publish.UTC().Format("2006-01-02T15:04:05Z07:00"), publish.In(loc).Format("2006-01-02 15:04"), loc)
			return table.Render(cmd.OutOrStdout(),
				[]string{"milestone", "target_utc", "target_local"},
				table.TargetRows(calc.Targets(publish), loc))
		},
	}
}
