package config

import "time"

// Config is the root configuration for the Pulse telemetry service.
type Config struct {
	// Server contains the ops HTTP server configuration (health and
	// metrics endpoints, timeouts, shutdown).
	Server ServerConfig `yaml:"server"`

	// Telemetry contains the collection pipeline configuration: logging,
	// the metrics collector and its sinks, and alert thresholds.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the ops HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit. Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown, including the collector's
	// final flush. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig groups the observability pipeline settings.
type TelemetryConfig struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the collector and its sinks.
	Metrics MetricsConfig `yaml:"metrics"`

	// Thresholds are the alert limits watched by the threshold monitor.
	Thresholds []ThresholdConfig `yaml:"thresholds"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text". Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for the metrics collector.
type MetricsConfig struct {
	// Enabled turns the whole pipeline on or off. When disabled,
	// ingestion calls are no-ops. Default: true
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies the emitting process in sink payloads.
	// Default: "adastra-web"
	ServiceName string `yaml:"service_name"`

	// BufferSize is the batch capacity; the append that reaches it
	// triggers an immediate flush. Default: 100
	BufferSize int `yaml:"buffer_size"`

	// FlushInterval is the time-driven flush cadence, also used for the
	// system health probe. Default: 5s
	FlushInterval time.Duration `yaml:"flush_interval"`

	// SamplingRate is the probability (0..1) that a request is
	// instrumented. Default: 1.0
	SamplingRate float64 `yaml:"sampling_rate"`

	// Sinks enumerates the delivery destinations to construct at startup.
	// Destinations without configuration are not built; with none
	// configured the console sink is used.
	Sinks SinksConfig `yaml:"sinks"`
}

// SinksConfig enumerates the metric destinations. Which sinks exist is
// decided here, explicitly, at startup; there is no runtime detection.
type SinksConfig struct {
	Console    ConsoleSinkConfig    `yaml:"console"`
	Agent      AgentSinkConfig      `yaml:"agent"`
	Webhook    WebhookSinkConfig    `yaml:"webhook"`
	Prometheus PrometheusSinkConfig `yaml:"prometheus"`
}

// ConsoleSinkConfig configures the structured-log sink.
type ConsoleSinkConfig struct {
	// Enabled forces the console sink even when other sinks exist.
	Enabled bool `yaml:"enabled"`
}

// AgentSinkConfig configures the StatsD/DogStatsD push sink. An empty
// Address means the sink is not built.
type AgentSinkConfig struct {
	// Address is the agent's UDP endpoint, e.g. "localhost:8125".
	Address string `yaml:"address"`

	// Namespace is prepended to every metric name sent to the agent.
	Namespace string `yaml:"namespace"`
}

// WebhookSinkConfig configures the JSON webhook sink. An empty URL means
// the sink is not built.
type WebhookSinkConfig struct {
	// URL is the endpoint POSTed to with each batch envelope.
	URL string `yaml:"url"`

	// Timeout bounds a single delivery. Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// PrometheusSinkConfig configures the pull-based Prometheus bridge.
type PrometheusSinkConfig struct {
	// Enabled builds the sink and exposes its registry at /metrics.
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace. Default: "adastra"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem. Default: "pulse"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are histogram buckets for timers, in milliseconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// SizeBuckets are histogram buckets for size histograms, in bytes.
	SizeBuckets []float64 `yaml:"size_buckets"`
}

// ThresholdConfig is one alert threshold as written in YAML.
type ThresholdConfig struct {
	// Metric is the watched metric name, e.g. "requests.duration".
	Metric string `yaml:"metric"`

	// Comparator is one of > >= < <= ==, applied as value COMPARATOR limit.
	Comparator string `yaml:"comparator"`

	// Limit is the boundary value (milliseconds for timers).
	Limit float64 `yaml:"limit"`

	// Severity optionally overrides the derived severity:
	// "critical", "high", "medium", "low".
	Severity string `yaml:"severity"`
}
