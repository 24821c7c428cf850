package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse - telemetry pipeline for the Adastra platform",
	Long: `Pulse is the metrics collection and request-instrumentation pipeline
for the Adastra marketing-operations platform.

It buffers metrics in-process, fans batches out to configured sinks
(console, StatsD agent, webhook, Prometheus), instruments every HTTP
request with normalized low-cardinality endpoint tags, and raises alert
events when configured thresholds are breached.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
