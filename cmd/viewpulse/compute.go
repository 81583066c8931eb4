package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghalamif/ViewPulse"
	"github.com/ghalamif/ViewPulse/internal/adapters/observability"
)

func newComputeCmd(root *rootOptions) *cobra.Command {
	var (
		progress bool
		format   string
		output   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Rebuild the milestone report from the collected statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Report.Kind = format
			}
			if output != "" {
				cfg.Report.Path = output
			}
			if workers > 0 {
				cfg.Compute.Workers = workers
			}

			var opts []viewpulse.RuntimeOption
			if progress {
				opts = append(opts, viewpulse.WithProgress(observability.NewProgressBar(cmd.ErrOrStderr(), "assembling")))
			}
			rt, err := viewpulse.NewRuntime(cfg, opts...)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := rt.Compute(ctx)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.ErrOrStderr(), cmd.ErrOrStderr(), !root.noColor)
			p.Success("%d videos from %d rows (%d skipped) in %s",
				len(res.Report), res.RowsRead, res.Skipped, res.Duration.Round(time.Millisecond))
			if res.Unparsable > 0 {
				p.Warning("%d fields could not be parsed", res.Unparsable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar while assembling")
	cmd.Flags().StringVar(&format, "format", "", "override report.kind (csv, table, postgres)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "override report.path; - writes CSV to stdout")
	cmd.Flags().IntVar(&workers, "workers", 0, "override compute.workers")
	return cmd
}
