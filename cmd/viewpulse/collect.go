package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghalamif/ViewPulse"
)

func newCollectCmd(root *rootOptions) *cobra.Command {
	var watchlist string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch current statistics for the watchlist and append them to the stats store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if watchlist != "" {
				cfg.Collector.Watchlist = watchlist
			}

			rt, err := viewpulse.NewRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := rt.Collect(ctx)
			if err != nil {
				return err
			}

			p := root.printer(cmd)
			if len(res.Rows) == 0 {
				p.Warning("no video ids found in %s", cfg.Collector.Watchlist)
				return nil
			}
			p.Success("appended %d rows to %s (run %s)", len(res.Rows), cfg.Source.Path, res.RunID)
			if res.Missing > 0 {
				p.Warning("%d videos returned no statistics", res.Missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&watchlist, "watchlist", "", "override collector.watchlist")
	return cmd
}
