package sink

import (
	"testing"
	"time"

	"adastra-hq/pulse/pkg/config"
)

func sinkNames(t *testing.T, cfg *config.SinksConfig) []string {
	t.Helper()
	sinks := BuildSinks(cfg, "adastra-web", nil)
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	return names
}

func TestBuildSinks_DefaultsToConsole(t *testing.T) {
	names := sinkNames(t, &config.SinksConfig{})
	if len(names) != 1 || names[0] != "console" {
		t.Errorf("sinks = %v, want [console]", names)
	}
}

func TestBuildSinks_AllConfigured(t *testing.T) {
	cfg := &config.SinksConfig{
		Console:    config.ConsoleSinkConfig{Enabled: true},
		Agent:      config.AgentSinkConfig{Address: "localhost:8125"},
		Webhook:    config.WebhookSinkConfig{URL: "https://hooks.example.com/metrics", Timeout: 5 * time.Second},
		Prometheus: config.PrometheusSinkConfig{Enabled: true},
	}

	names := sinkNames(t, cfg)
	want := map[string]bool{"agent": true, "webhook": true, "prometheus": true, "console": true}
	if len(names) != len(want) {
		t.Fatalf("sinks = %v, want 4 entries", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected sink %q", n)
		}
	}
}

func TestBuildSinks_ConsoleNotDuplicated(t *testing.T) {
	cfg := &config.SinksConfig{
		Prometheus: config.PrometheusSinkConfig{Enabled: true},
	}
	names := sinkNames(t, cfg)
	if len(names) != 1 || names[0] != "prometheus" {
		t.Errorf("sinks = %v, want [prometheus]", names)
	}
}
