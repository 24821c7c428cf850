package sink

import (
	"log/slog"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

// BuildSinks constructs the sinks named in configuration. Destinations
// without configuration are skipped silently; a sink whose construction
// fails is logged and skipped rather than aborting startup, because losing
// one telemetry destination must not take the application down with it.
//
// When nothing is configured the console sink is returned so the pipeline
// stays observable with zero setup.
func BuildSinks(cfg *config.SinksConfig, service string, logger *slog.Logger) []metrics.Sink {
	if logger == nil {
		logger = slog.Default()
	}

	var sinks []metrics.Sink

	if cfg.Agent.Address != "" {
		agent, err := NewAgentSink(&cfg.Agent)
		if err != nil {
			logger.Warn("agent sink unavailable, continuing without it",
				"address", cfg.Agent.Address,
				"error", err,
			)
		} else {
			sinks = append(sinks, agent)
		}
	}

	if cfg.Webhook.URL != "" {
		sinks = append(sinks, NewWebhookSink(&cfg.Webhook, service))
	}

	if cfg.Prometheus.Enabled {
		sinks = append(sinks, NewPrometheusSink(&cfg.Prometheus))
	}

	if cfg.Console.Enabled || len(sinks) == 0 {
		sinks = append(sinks, NewConsoleSink(logger))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	logger.Info("metric sinks configured", "sinks", names)

	return sinks
}
