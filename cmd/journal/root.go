package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/logger"
)

type rootOptions struct {
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "journal",
		Short:         "Trading journal service",
		Long:          "Records trades and chart ideas per user and serves them, with statistics, over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config", "./configs", "directory holding config.yml")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newStatsCmd(opts),
		newConfigCmd(),
	)
	return rootCmd
}

// load reads and validates the configuration and builds the logger.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
