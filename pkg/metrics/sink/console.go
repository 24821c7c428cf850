package sink

import (
	"context"
	"log/slog"

	"adastra-hq/pulse/pkg/metrics"
)

// ConsoleSink writes metrics to the structured log. It always succeeds and
// is the default destination when no external sink is configured, so the
// pipeline is observable with zero setup.
type ConsoleSink struct {
	logger *slog.Logger
}

// NewConsoleSink creates a console sink. A nil logger uses slog.Default.
func NewConsoleSink(logger *slog.Logger) *ConsoleSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSink{
		logger: logger.With("component", "sink.console"),
	}
}

// Name implements metrics.Sink.
func (s *ConsoleSink) Name() string { return "console" }

// Send logs a single metric at debug level.
func (s *ConsoleSink) Send(_ context.Context, m metrics.Metric) error {
	s.logger.Debug("metric",
		"name", m.Name,
		"kind", m.Kind.String(),
		"value", m.Value,
		"tags", m.Tags,
	)
	return nil
}

// SendBatch logs a batch summary at debug level plus one line per metric.
func (s *ConsoleSink) SendBatch(ctx context.Context, batch []metrics.Metric) error {
	s.logger.Debug("metric batch", "size", len(batch))
	for _, m := range batch {
		if err := s.Send(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Healthy always reports true; there is nothing to fail.
func (s *ConsoleSink) Healthy() bool { return true }
