package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
	"adastra-hq/pulse/pkg/metrics/sink"
	"adastra-hq/pulse/pkg/monitor"
	"adastra-hq/pulse/pkg/server"
)

// captureSink records delivered metrics for assertions.
type captureSink struct {
	mu      sync.Mutex
	metrics []metrics.Metric
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Send(ctx context.Context, m metrics.Metric) error {
	return s.SendBatch(ctx, []metrics.Metric{m})
}

func (s *captureSink) SendBatch(_ context.Context, batch []metrics.Metric) error {
	s.mu.Lock()
	s.metrics = append(s.metrics, batch...)
	s.mu.Unlock()
	return nil
}

func (s *captureSink) Healthy() bool { return true }

func (s *captureSink) find(name string) []metrics.Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []metrics.Metric
	for _, m := range s.metrics {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

const pipelineConfig = `
server:
  listen_address: "127.0.0.1:0"
telemetry:
  metrics:
    service_name: adastra-web
    buffer_size: 500
    flush_interval: 5s
    sinks:
      prometheus:
        enabled: true
  thresholds:
    - metric: requests.duration
      comparator: ">"
      limit: 100
      severity: high
`

// TestPipeline_RequestToAlert drives an HTTP request through the full
// assembly: instrumentation middleware, collector, threshold monitor, and
// the Prometheus scrape endpoint.
func TestPipeline_RequestToAlert(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(pipelineConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	thresholds, err := monitor.FromConfig(cfg.Telemetry.Thresholds)
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	mon := monitor.New(thresholds)

	capture := &captureSink{}
	prom := sink.NewPrometheusSink(&cfg.Telemetry.Metrics.Sinks.Prometheus)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics,
		[]metrics.Sink{capture, prom},
		metrics.WithObserver(mon.Observe),
	)
	mon.Bind(collector.Counter)

	app := http.NewServeMux()
	app.HandleFunc("/api/ai/score", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		_, _ = w.Write([]byte(`{"score": 0.9}`))
	})
	app.HandleFunc("/api/campaigns", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	srv := server.NewServer(&cfg.Server, collector,
		server.WithAppHandler(app),
		server.WithPrometheusRegistry(prom.Registry()),
	)
	handler := srv.Handler()

	// A slow request breaches the 100ms duration threshold.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ai/score", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// A fast one does not.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))

	collector.Flush()

	totals := capture.find("requests.total")
	if len(totals) != 2 {
		t.Fatalf("requests.total delivered %d times, want 2", len(totals))
	}

	alerts := capture.find("alerts.triggered")
	if len(alerts) != 1 {
		t.Fatalf("alerts.triggered delivered %d times, want 1", len(alerts))
	}
	tags := alerts[0].Tags
	if tags["metric"] != "requests.duration" || tags["severity"] != "high" {
		t.Errorf("alert tags = %v", tags)
	}
	if tags["endpoint"] != "/api/ai/score" {
		t.Errorf("alert endpoint = %q, want /api/ai/score", tags["endpoint"])
	}

	// The same batch reached the Prometheus registry; scrape it.
	scrape := httptest.NewRecorder()
	handler.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if scrape.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", scrape.Code)
	}
	body := scrape.Body.String()
	for _, want := range []string{
		"adastra_pulse_requests_total",
		"adastra_pulse_requests_duration_ms",
		"adastra_pulse_alerts_triggered_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %s", want)
		}
	}

	// Health endpoint reports both sinks.
	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", health.Code)
	}

	// Graceful shutdown delivers whatever the health/scrape requests buffered.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := collector.Shutdown(ctx); err != nil {
		t.Errorf("collector shutdown: %v", err)
	}
}
