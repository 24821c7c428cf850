package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

// WebhookSink POSTs metric batches to a configured HTTP endpoint as a JSON
// envelope:
//
//	{
//	  "metrics": [ {"name": "...", "value": 1, "kind": 0, "tags": {...}, "timestamp": "..."}, ... ],
//	  "timestamp": "2026-08-31T10:30:00Z",
//	  "service": "adastra-web"
//	}
//
// A non-2xx response counts as a failed send: the error is returned to the
// collector for logging, the sink marks itself unhealthy, and the batch is
// not retried.
type WebhookSink struct {
	url       string
	service   string
	client    *http.Client
	unhealthy atomic.Bool
}

// webhookEnvelope is the wire format posted to the endpoint.
type webhookEnvelope struct {
	Metrics   []metrics.Metric `json:"metrics"`
	Timestamp string           `json:"timestamp"`
	Service   string           `json:"service"`
}

// NewWebhookSink creates a webhook sink posting to cfg.URL. The service
// name identifies the emitting process in the envelope.
func NewWebhookSink(cfg *config.WebhookSinkConfig, service string) *WebhookSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSink{
		url:     cfg.URL,
		service: service,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements metrics.Sink.
func (s *WebhookSink) Name() string { return "webhook" }

// Send delivers a single metric as a one-element batch.
func (s *WebhookSink) Send(ctx context.Context, m metrics.Metric) error {
	return s.SendBatch(ctx, []metrics.Metric{m})
}

// SendBatch posts the envelope. Empty batches are skipped.
func (s *WebhookSink) SendBatch(ctx context.Context, batch []metrics.Metric) error {
	if len(batch) == 0 {
		return nil
	}

	envelope := webhookEnvelope{
		Metrics:   batch,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   s.service,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		s.unhealthy.Store(true)
		return fmt.Errorf("failed to encode metric envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.unhealthy.Store(true)
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.unhealthy.Store(true)
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.unhealthy.Store(true)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	s.unhealthy.Store(false)
	return nil
}

// Healthy reflects the outcome of the most recent delivery.
func (s *WebhookSink) Healthy() bool {
	return !s.unhealthy.Load()
}
