package sink

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"adastra-hq/pulse/pkg/metrics"
)

func TestConsoleSink_LogsBatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := NewConsoleSink(logger)
	batch := []metrics.Metric{
		metrics.NewMetric("requests.total", 1, metrics.KindCounter, map[string]string{"method": "GET"}),
		metrics.NewMetric("requests.duration", 42, metrics.KindTimer, nil),
	}

	if err := s.SendBatch(context.Background(), batch); err != nil {
		t.Fatalf("SendBatch() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"metric batch", "size=2", "requests.total", "kind=counter", "requests.duration", "kind=timer"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleSink_AlwaysHealthy(t *testing.T) {
	s := NewConsoleSink(nil)
	if !s.Healthy() {
		t.Error("console sink reported unhealthy")
	}
}
