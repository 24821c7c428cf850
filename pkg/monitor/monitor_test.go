package monitor

import (
	"sync"
	"testing"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

type alertRecorder struct {
	mu     sync.Mutex
	events []alertEvent
}

type alertEvent struct {
	name  string
	delta float64
	tags  map[string]string
}

func (r *alertRecorder) record(name string, delta float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, alertEvent{name, delta, tags})
}

func (r *alertRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func observe(m *Monitor, name string, value float64, tags map[string]string) {
	m.Observe(metrics.NewMetric(name, value, metrics.KindTimer, tags))
}

func TestMonitor_BreachFiresAlert(t *testing.T) {
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500, Severity: SeverityHigh},
	})
	m.Bind(rec.record)

	observe(m, "requests.duration", 800, map[string]string{"endpoint": "/api/ai/score"})

	if rec.count() != 1 {
		t.Fatalf("alerts fired = %d, want 1", rec.count())
	}
	ev := rec.events[0]
	if ev.name != "alerts.triggered" || ev.delta != 1 {
		t.Errorf("event = %s %g", ev.name, ev.delta)
	}
	want := map[string]string{
		"metric":     "requests.duration",
		"severity":   "high",
		"comparator": ">",
		"limit":      "500",
		"endpoint":   "/api/ai/score",
	}
	for k, v := range want {
		if ev.tags[k] != v {
			t.Errorf("tag %s = %q, want %q", k, ev.tags[k], v)
		}
	}
}

func TestMonitor_OneAlertPerBreachingObservation(t *testing.T) {
	// No hysteresis and no cleared events: a value crossing back and forth
	// fires once per breaching observation, nothing on recovery.
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500},
	})
	m.Bind(rec.record)

	observe(m, "requests.duration", 800, nil) // breach
	observe(m, "requests.duration", 200, nil) // nominal
	observe(m, "requests.duration", 900, nil) // breach again

	if rec.count() != 2 {
		t.Errorf("alerts fired = %d, want 2", rec.count())
	}
	for _, ev := range rec.events {
		if ev.name != "alerts.triggered" {
			t.Errorf("unexpected event %q (no cleared events expected)", ev.name)
		}
	}
}

func TestMonitor_AtLimitDoesNotBreachGT(t *testing.T) {
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500},
	})
	m.Bind(rec.record)

	observe(m, "requests.duration", 500, nil)

	if rec.count() != 0 {
		t.Errorf("alert fired at exact limit with > comparator")
	}
}

func TestMonitor_IgnoresOtherMetrics(t *testing.T) {
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500},
	})
	m.Bind(rec.record)

	observe(m, "requests.total", 10000, nil)

	if rec.count() != 0 {
		t.Errorf("alert fired for unwatched metric")
	}
}

func TestMonitor_IgnoresAlertMetrics(t *testing.T) {
	// An alert travelling back through the pipeline must not trigger more
	// alerts, even if a threshold watches it.
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "alerts.triggered", Comparator: ComparatorGTE, Limit: 1},
	})
	m.Bind(rec.record)

	observe(m, "alerts.triggered", 1, nil)

	if rec.count() != 0 {
		t.Errorf("alert metric triggered a further alert")
	}
}

func TestMonitor_UnboundOnlyLogs(t *testing.T) {
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500},
	})
	// No Bind: a breach must not panic.
	observe(m, "requests.duration", 800, nil)
}

func TestMonitor_SetThresholds(t *testing.T) {
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.duration", Comparator: ComparatorGT, Limit: 500},
	})
	m.Bind(rec.record)

	m.SetThresholds([]Threshold{
		{Metric: "system.memory.heap_ratio", Comparator: ComparatorGTE, Limit: 0.9},
	})

	observe(m, "requests.duration", 800, nil)
	observe(m, "system.memory.heap_ratio", 0.95, nil)

	if rec.count() != 1 {
		t.Fatalf("alerts fired = %d, want 1", rec.count())
	}
	if got := rec.events[0].tags["metric"]; got != "system.memory.heap_ratio" {
		t.Errorf("alert metric = %q", got)
	}

	if got := len(m.Thresholds()); got != 1 {
		t.Errorf("Thresholds() returned %d entries, want 1", got)
	}
}

func TestMonitor_DerivedSeverity(t *testing.T) {
	rec := &alertRecorder{}
	m := New([]Threshold{
		{Metric: "requests.server_errors", Comparator: ComparatorGTE, Limit: 1},
	})
	m.Bind(rec.record)

	observe(m, "requests.server_errors", 3, nil)

	if rec.count() != 1 {
		t.Fatalf("alerts fired = %d, want 1", rec.count())
	}
	if got := rec.events[0].tags["severity"]; got != "high" {
		t.Errorf("derived severity = %q, want high", got)
	}
}

func TestDefaultThresholds(t *testing.T) {
	ts := DefaultThresholds(0.05, 0.9)
	if len(ts) != 2 {
		t.Fatalf("got %d thresholds, want 2", len(ts))
	}
	if ts[0].Metric != "requests.error_rate" || ts[0].Limit != 0.05 {
		t.Errorf("first threshold = %+v", ts[0])
	}
	if ts[1].Metric != "system.memory.heap_ratio" || ts[1].Limit != 0.9 {
		t.Errorf("second threshold = %+v", ts[1])
	}

	if got := DefaultThresholds(0, 0); len(got) != 0 {
		t.Errorf("zero limits produced %d thresholds, want 0", len(got))
	}
}

func TestMonitor_ErrorRateThreshold(t *testing.T) {
	// The rolling error ratio is a watchable stream: values under the limit
	// stay quiet, a breach alerts at high severity, and the heap ratio
	// companion derives critical from its name.
	rec := &alertRecorder{}
	m := New(DefaultThresholds(0.05, 0.9))
	m.Bind(rec.record)

	observe(m, "requests.error_rate", 0.02, nil)
	if rec.count() != 0 {
		t.Fatalf("alert fired below the error-rate limit")
	}

	observe(m, "requests.error_rate", 0.12, nil)
	if rec.count() != 1 {
		t.Fatalf("alerts fired = %d, want 1", rec.count())
	}
	if got := rec.events[0].tags["severity"]; got != "high" {
		t.Errorf("error-rate severity = %q, want high", got)
	}

	observe(m, "system.memory.heap_ratio", 0.95, nil)
	if rec.count() != 2 {
		t.Fatalf("alerts fired = %d, want 2", rec.count())
	}
	if got := rec.events[1].tags["severity"]; got != "critical" {
		t.Errorf("heap-ratio severity = %q, want critical", got)
	}
}

func TestComparator_Compare(t *testing.T) {
	tests := []struct {
		c     Comparator
		value float64
		limit float64
		want  bool
	}{
		{ComparatorGT, 2, 1, true},
		{ComparatorGT, 1, 1, false},
		{ComparatorGTE, 1, 1, true},
		{ComparatorLT, 0.5, 1, true},
		{ComparatorLT, 1, 1, false},
		{ComparatorLTE, 1, 1, true},
		{ComparatorEQ, 1, 1, true},
		{ComparatorEQ, 1.1, 1, false},
		{Comparator("!?"), 1, 1, false},
	}
	for _, tt := range tests {
		if got := tt.c.Compare(tt.value, tt.limit); got != tt.want {
			t.Errorf("(%g %s %g) = %v, want %v", tt.value, tt.c, tt.limit, got, tt.want)
		}
	}
}

func TestParseComparator(t *testing.T) {
	for _, valid := range []string{">", ">=", "<", "<=", "=="} {
		if _, err := ParseComparator(valid); err != nil {
			t.Errorf("ParseComparator(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseComparator("=>"); err == nil {
		t.Error("ParseComparator(\"=>\") succeeded, want error")
	}
}

func TestDeriveSeverity(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		tags   map[string]string
		want   Severity
	}{
		{"database category", "errors.total", map[string]string{"error_category": "database"}, SeverityCritical},
		{"memory metric", "system.memory.heap_ratio", nil, SeverityCritical},
		{"auth category", "errors.total", map[string]string{"error_category": "authentication"}, SeverityHigh},
		{"5xx class", "requests.errors", map[string]string{"status_class": "5xx"}, SeverityHigh},
		{"server errors metric", "requests.server_errors", nil, SeverityHigh},
		{"validation category", "errors.total", map[string]string{"error_category": "validation"}, SeverityMedium},
		{"4xx class", "requests.errors", map[string]string{"status_class": "4xx"}, SeverityMedium},
		{"not found metric", "requests.not_found", nil, SeverityMedium},
		{"plain duration", "requests.duration", nil, SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveSeverity(tt.metric, tt.tags); got != tt.want {
				t.Errorf("deriveSeverity(%q, %v) = %q, want %q", tt.metric, tt.tags, got, tt.want)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	thresholds, err := FromConfig([]config.ThresholdConfig{
		{Metric: "requests.duration", Comparator: ">", Limit: 500, Severity: "high"},
		{Metric: "system.memory.heap_ratio", Comparator: ">=", Limit: 0.9},
	})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if len(thresholds) != 2 {
		t.Fatalf("got %d thresholds, want 2", len(thresholds))
	}
	if thresholds[0].Comparator != ComparatorGT || thresholds[0].Severity != SeverityHigh {
		t.Errorf("first threshold = %+v", thresholds[0])
	}
	if thresholds[1].Severity != "" {
		t.Errorf("second threshold severity = %q, want empty (derived at alert time)", thresholds[1].Severity)
	}
}

func TestFromConfig_BadComparator(t *testing.T) {
	_, err := FromConfig([]config.ThresholdConfig{
		{Metric: "requests.duration", Comparator: "=>", Limit: 500},
	})
	if err == nil {
		t.Fatal("expected error for bad comparator")
	}
}
