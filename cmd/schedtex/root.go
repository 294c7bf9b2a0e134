package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedtex/internal/config"
	"schedtex/internal/layout"
	appLog "schedtex/internal/log"
	"schedtex/internal/schedule"
)

// flagConfig holds CLI flag values; they override the config file only
// when set explicitly.
type flagConfig struct {
	configPath string
	url        string
	outputDir  string
	insecure   bool
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var flags flagConfig

	cmd := &cobra.Command{
		Use:   "schedtex",
		Short: "Render a festival schedule feed into TikZ fragments",
		Long: "schedtex fetches a JSON schedule feed and writes \\draw/\\node fragments\n" +
			"for an overview of all days and for each single day.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", config.DefaultURL, "The mdjson schedule url")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to YAML config file (created with defaults if missing)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for generated .tex files")
	cmd.Flags().BoolVar(&flags.insecure, "insecure", false, "Skip TLS certificate and hostname verification")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func resolveConfig(cmd *cobra.Command, flags flagConfig) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("url") {
		cfg.URL = flags.url
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if cmd.Flags().Changed("insecure") {
		cfg.InsecureSkipVerify = flags.insecure
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	cfg.Normalize()

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	appLog.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	appLog.Info("schedtex starting",
		"config_path", cmd.Flag("config").Value.String(),
		"output_dir", cfg.OutputDir,
		"timeout", cfg.Timeout,
		"insecure_skip_verify", cfg.InsecureSkipVerify,
		"overview", cfg.Overview.Enabled,
		"paired", cfg.Paired.Enabled,
		"single", cfg.Single.Enabled,
	)
	if cfg.InsecureSkipVerify {
		appLog.Warn("TLS verification disabled for schedule feed")
	}

	fetcher := schedule.NewFetcher(schedule.Options{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	sched, err := fetcher.Load(cmd.Context(), cfg.URL)
	if err != nil {
		return err
	}

	arts, err := layout.NewDriver(cfg).Run(sched)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(arts, cfg.OutputDir, shouldStyle(out)))
	return nil
}
