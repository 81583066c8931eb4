package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ghalamif/ViewPulse"
)

const defaultConfigPath = "viewpulse.yaml"

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "viewpulse",
		Short: "Track YouTube view counts at fixed milestones after publication",
		Long: `viewpulse collects daily view counts for a watchlist of YouTube videos and
computes, per video, the views at 24h, 7d, 15d, 30d and 90d after publication
and at the end of the publish day in the reference timezone.

Example usage:
  viewpulse collect                     # append today's statistics
  viewpulse compute --progress          # rebuild the milestone report
  viewpulse targets 2024-01-15T16:50:00Z
  viewpulse validate --config viewpulse.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(".env", ".env.local")
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newComputeCmd(opts),
		newCollectCmd(opts),
		newValidateCmd(opts),
		newTargetsCmd(opts),
	)
	return root
}

// loadDotEnv loads secrets such as YT_API_KEY from the given files; missing
// files are ignored and variables already set win.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// loadConfig reads the config file. The default path may be absent, in which
// case built-in defaults are used.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*viewpulse.Config, error) {
	cfg, err := viewpulse.LoadConfig(o.configPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = viewpulse.DefaultConfig()
	default:
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), !o.noColor)
}
