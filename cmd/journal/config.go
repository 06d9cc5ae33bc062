package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	var out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&out, "output", "o", "configs/config.yml", "file to write")

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(file)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%s mode)\n", file, cfg.Backend.Mode)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "configs/config.yml", "file to check")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
