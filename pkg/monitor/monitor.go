package monitor

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"adastra-hq/pulse/pkg/metrics"
)

// AlertFunc raises an alert event as a counter increment. It is normally
// bound to Collector.Counter so alerts travel the same pipeline as every
// other metric.
type AlertFunc func(name string, delta float64, tags map[string]string)

// Monitor watches selected metric streams and raises alert events when
// configured thresholds are breached.
//
// The monitor is stateless per observation: a breach fires an alert and
// the watched key returns to nominal immediately, with no debounce or
// hysteresis and no "cleared" events. A value oscillating around a limit
// therefore produces one alert per breaching observation. That matches the
// source behavior; whether a suppression window is wanted is an open
// product question, so the behavior is preserved rather than guessed at.
//
// Observe is registered as a collector observer and runs synchronously on
// the ingestion path, so it must stay cheap: one read-locked slice scan per
// metric.
type Monitor struct {
	mu         sync.RWMutex
	thresholds []Threshold

	alert  AlertFunc
	logger *slog.Logger
}

// Option customizes a Monitor at construction time.
type Option func(*Monitor)

// WithLogger sets the logger used for breach warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// New creates a monitor with the given thresholds. Bind the alert output
// after the collector exists:
//
//	mon := monitor.New(thresholds)
//	collector := metrics.NewCollector(cfg, sinks, metrics.WithObserver(mon.Observe))
//	mon.Bind(collector.Counter)
func New(thresholds []Threshold, opts ...Option) *Monitor {
	m := &Monitor{
		thresholds: thresholds,
		logger:     slog.Default().With("component", "monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind sets where alert events are emitted. Until bound, breaches are only
// logged.
func (m *Monitor) Bind(alert AlertFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alert = alert
}

// SetThresholds replaces the watched thresholds. Serves the config watcher
// on hot reload.
func (m *Monitor) SetThresholds(thresholds []Threshold) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds = thresholds
}

// Thresholds returns a copy of the currently watched thresholds.
func (m *Monitor) Thresholds() []Threshold {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Threshold, len(m.thresholds))
	copy(out, m.thresholds)
	return out
}

// Observe evaluates one ingested metric against all thresholds watching
// its name. Alert metrics themselves are ignored so an alert cannot
// trigger further alerts.
func (m *Monitor) Observe(metric metrics.Metric) {
	if strings.HasPrefix(metric.Name, "alerts.") {
		return
	}

	m.mu.RLock()
	thresholds := m.thresholds
	alert := m.alert
	m.mu.RUnlock()

	for _, t := range thresholds {
		if t.Metric != metric.Name {
			continue
		}
		if !t.Comparator.Compare(metric.Value, t.Limit) {
			continue
		}

		severity := t.Severity
		if severity == "" {
			severity = deriveSeverity(metric.Name, metric.Tags)
		}

		tags := map[string]string{
			"metric":     metric.Name,
			"severity":   string(severity),
			"comparator": string(t.Comparator),
			"limit":      strconv.FormatFloat(t.Limit, 'f', -1, 64),
		}
		if ep, ok := metric.Tags["endpoint"]; ok {
			tags["endpoint"] = ep
		}

		m.logger.Warn("threshold breached",
			"metric", metric.Name,
			"value", metric.Value,
			"comparator", string(t.Comparator),
			"limit", t.Limit,
			"severity", string(severity),
		)

		if alert != nil {
			alert("alerts.triggered", 1, tags)
		}
	}
}
