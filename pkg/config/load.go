package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides applied after the file is read. These
// cover the values that differ between deployments without editing the
// config file (container environments in particular).
const (
	EnvListenAddress = "PULSE_LISTEN_ADDRESS"
	EnvServiceName   = "PULSE_SERVICE_NAME"
	EnvLogLevel      = "PULSE_LOG_LEVEL"
	EnvAgentAddress  = "PULSE_AGENT_ADDRESS"
	EnvWebhookURL    = "PULSE_WEBHOOK_URL"
)

// LoadFromFile reads, overlays, and validates a YAML configuration file.
// The file overrides DefaultConfig values; environment variables override
// the file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML configuration from raw bytes. Exposed for the
// file watcher and for tests.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvListenAddress); v != "" {
		cfg.Server.ListenAddress = v
	}
	if v := os.Getenv(EnvServiceName); v != "" {
		cfg.Telemetry.Metrics.ServiceName = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Telemetry.Logging.Level = v
	}
	if v := os.Getenv(EnvAgentAddress); v != "" {
		cfg.Telemetry.Metrics.Sinks.Agent.Address = v
	}
	if v := os.Getenv(EnvWebhookURL); v != "" {
		cfg.Telemetry.Metrics.Sinks.Webhook.URL = v
	}
}
