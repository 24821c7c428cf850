package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adastra-hq/pulse/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long:  `Load and validate the configuration file without starting the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}

		fmt.Printf("Configuration %s is valid\n", cfgFile)
		fmt.Printf("  service: %s\n", cfg.Telemetry.Metrics.ServiceName)
		fmt.Printf("  buffer size: %d\n", cfg.Telemetry.Metrics.BufferSize)
		fmt.Printf("  flush interval: %s\n", cfg.Telemetry.Metrics.FlushInterval)
		fmt.Printf("  thresholds: %d\n", len(cfg.Telemetry.Thresholds))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
