package main

import (
	"github.com/spf13/cobra"

	"github.com/ghalamif/ViewPulse"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file without running a pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := viewpulse.LoadConfig(root.configPath)
			if err != nil {
				return err
			}

			p := root.printer(cmd)
			p.Success("config %s looks good", root.configPath)
			p.Info("timezone %s, policy %s, source %s (%s), report %s",
				cfg.Milestones.Timezone, cfg.Milestones.Mode, cfg.Source.Kind, cfg.Source.Path, cfg.Report.Kind)
			if cfg.UsesPostgres() {
				p.Info("postgres tables %s, %s", cfg.Postgres.StatsTable, cfg.Postgres.ReportTable)
			}
			return nil
		},
	}
}
