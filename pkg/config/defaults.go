package config

import "time"

// Default values applied by DefaultConfig and referenced by constructors
// that receive a partially filled config.
const (
	DefaultListenAddress     = "127.0.0.1:9090"
	DefaultServiceName       = "adastra-web"
	DefaultMetricsBufferSize = 100
	DefaultFlushInterval     = 5 * time.Second
	DefaultSamplingRate      = 1.0
	DefaultWebhookTimeout    = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultPrometheusNS      = "adastra"
	DefaultPrometheusSubsys  = "pulse"
)

// DefaultConfig returns a fully populated configuration. Loading starts
// from these values and lets the YAML file override them, so omitted keys
// keep their defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Metrics: MetricsConfig{
				Enabled:       true,
				ServiceName:   DefaultServiceName,
				BufferSize:    DefaultMetricsBufferSize,
				FlushInterval: DefaultFlushInterval,
				SamplingRate:  DefaultSamplingRate,
				Sinks: SinksConfig{
					Webhook: WebhookSinkConfig{
						Timeout: DefaultWebhookTimeout,
					},
					Prometheus: PrometheusSinkConfig{
						Namespace: DefaultPrometheusNS,
						Subsystem: DefaultPrometheusSubsys,
					},
				},
			},
		},
	}
}
