package config

import (
	"fmt"
	"net/url"
	"time"
)

var validComparators = map[string]bool{
	">": true, ">=": true, "<": true, "<=": true, "==": true,
}

var validSeverities = map[string]bool{
	"": true, "critical": true, "high": true, "medium": true, "low": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration for values that would misbehave at
// runtime. Errors name the offending field path.
func (c *Config) Validate() error {
	if c.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if !validLogLevels[c.Telemetry.Logging.Level] {
		return fmt.Errorf("telemetry.logging.level: unknown level %q", c.Telemetry.Logging.Level)
	}
	if f := c.Telemetry.Logging.Format; f != "json" && f != "text" {
		return fmt.Errorf("telemetry.logging.format: unknown format %q (want json or text)", f)
	}

	m := &c.Telemetry.Metrics
	if m.BufferSize <= 0 {
		return fmt.Errorf("telemetry.metrics.buffer_size must be positive, got %d", m.BufferSize)
	}
	if m.FlushInterval < time.Second {
		return fmt.Errorf("telemetry.metrics.flush_interval must be at least 1s, got %s", m.FlushInterval)
	}
	if m.SamplingRate < 0 || m.SamplingRate > 1 {
		return fmt.Errorf("telemetry.metrics.sampling_rate must be in [0,1], got %g", m.SamplingRate)
	}

	if webhookURL := m.Sinks.Webhook.URL; webhookURL != "" {
		u, err := url.Parse(webhookURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("telemetry.metrics.sinks.webhook.url: invalid URL %q", webhookURL)
		}
	}

	for i, t := range c.Telemetry.Thresholds {
		if t.Metric == "" {
			return fmt.Errorf("telemetry.thresholds[%d].metric must not be empty", i)
		}
		if !validComparators[t.Comparator] {
			return fmt.Errorf("telemetry.thresholds[%d].comparator: unknown comparator %q", i, t.Comparator)
		}
		if !validSeverities[t.Severity] {
			return fmt.Errorf("telemetry.thresholds[%d].severity: unknown severity %q", i, t.Severity)
		}
	}

	return nil
}
