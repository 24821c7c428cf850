package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

func TestWebhookSink_PostsEnvelope(t *testing.T) {
	var got webhookEnvelope
	var contentType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode envelope: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	s := NewWebhookSink(&config.WebhookSinkConfig{URL: ts.URL, Timeout: 5 * time.Second}, "adastra-web")

	batch := []metrics.Metric{
		metrics.NewMetric("requests.total", 1, metrics.KindCounter, map[string]string{"method": "GET"}),
		metrics.NewMetric("requests.duration", 42, metrics.KindTimer, nil),
	}
	if err := s.SendBatch(context.Background(), batch); err != nil {
		t.Fatalf("SendBatch() error = %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if got.Service != "adastra-web" {
		t.Errorf("service = %q, want adastra-web", got.Service)
	}
	if len(got.Metrics) != 2 {
		t.Fatalf("envelope has %d metrics, want 2", len(got.Metrics))
	}
	if got.Metrics[0].Name != "requests.total" || got.Metrics[0].Tags["method"] != "GET" {
		t.Errorf("first metric = %+v", got.Metrics[0])
	}
	if _, err := time.Parse(time.RFC3339, got.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", got.Timestamp, err)
	}
	if !s.Healthy() {
		t.Error("sink unhealthy after successful delivery")
	}
}

func TestWebhookSink_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewWebhookSink(&config.WebhookSinkConfig{URL: ts.URL}, "adastra-web")

	m := metrics.NewMetric("requests.total", 1, metrics.KindCounter, nil)
	if err := s.Send(context.Background(), m); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if s.Healthy() {
		t.Error("sink healthy after failed delivery")
	}
}

func TestWebhookSink_HealthRecovers(t *testing.T) {
	var failing bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := NewWebhookSink(&config.WebhookSinkConfig{URL: ts.URL}, "adastra-web")
	m := metrics.NewMetric("requests.total", 1, metrics.KindCounter, nil)
	ctx := context.Background()

	failing = true
	if err := s.Send(ctx, m); err == nil {
		t.Fatal("expected error")
	}
	if s.Healthy() {
		t.Fatal("sink healthy after failure")
	}

	failing = false
	if err := s.Send(ctx, m); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !s.Healthy() {
		t.Error("sink did not recover after successful delivery")
	}
}

func TestWebhookSink_EmptyBatchSkipped(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	s := NewWebhookSink(&config.WebhookSinkConfig{URL: ts.URL}, "adastra-web")
	if err := s.SendBatch(context.Background(), nil); err != nil {
		t.Fatalf("SendBatch(nil) error = %v", err)
	}
	if called {
		t.Error("empty batch was posted")
	}
}
