package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"adastra-hq/pulse/pkg/cli"
	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
	"adastra-hq/pulse/pkg/metrics/sink"
	"adastra-hq/pulse/pkg/middleware"
	"adastra-hq/pulse/pkg/monitor"
	"adastra-hq/pulse/pkg/server"
	"adastra-hq/pulse/pkg/telemetry/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Pulse ops server",
	Long: `Start the telemetry pipeline and its ops HTTP server.

The server exposes /health (per-sink delivery health) and, when the
Prometheus sink is enabled, /metrics for scraping. The configuration file
is watched so alert threshold changes take effect without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer() error {
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if _, err := logging.Setup(&cfg.Telemetry.Logging); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	instrumentCfg := middleware.DefaultConfig()
	instrumentCfg.SamplingRate = cfg.Telemetry.Metrics.SamplingRate
	errorRate := middleware.NewErrorRateProbe()
	instrumentCfg.ErrorRate = errorRate

	// Baseline thresholds from the middleware limits; configured ones stack
	// on top and survive hot reloads.
	baseThresholds := monitor.DefaultThresholds(
		instrumentCfg.Thresholds.ErrorRateRatio,
		instrumentCfg.Thresholds.MemoryUsageRatio,
	)
	combine := func(ts []monitor.Threshold) []monitor.Threshold {
		out := make([]monitor.Threshold, 0, len(baseThresholds)+len(ts))
		out = append(out, baseThresholds...)
		return append(out, ts...)
	}

	thresholds, err := monitor.FromConfig(cfg.Telemetry.Thresholds)
	if err != nil {
		return fmt.Errorf("failed to parse thresholds: %w", err)
	}
	mon := monitor.New(combine(thresholds))

	sinks := sink.BuildSinks(&cfg.Telemetry.Metrics.Sinks, cfg.Telemetry.Metrics.ServiceName, slog.Default())
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, sinks,
		metrics.WithObserver(mon.Observe),
	)
	mon.Bind(collector.Counter)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	sched := metrics.NewScheduler(collector,
		metrics.CombineProbes(metrics.NewSystemProbe(), errorRate),
		cfg.Telemetry.Metrics.FlushInterval,
	)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start flush scheduler: %w", err)
	}

	watcher, err := config.NewWatcher(cfgFile, func(newCfg *config.Config) {
		ts, err := monitor.FromConfig(newCfg.Telemetry.Thresholds)
		if err != nil {
			slog.Warn("ignoring reloaded thresholds", "error", err)
			return
		}
		mon.SetThresholds(combine(ts))
	})
	if err != nil {
		slog.Warn("config watcher unavailable, threshold hot-reload disabled", "error", err)
	} else if err := watcher.Start(ctx); err != nil {
		slog.Warn("config watcher failed to start", "error", err)
	}

	opts := []server.Option{
		server.WithInstrumentConfig(instrumentCfg),
	}
	for _, s := range sinks {
		if prom, ok := s.(*sink.PrometheusSink); ok {
			opts = append(opts, server.WithPrometheusRegistry(prom.Registry()))
		}
	}

	srv := server.NewServer(&cfg.Server, collector, opts...)
	return srv.Start(ctx)
}
