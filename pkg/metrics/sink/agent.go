package sink

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/DataDog/datadog-go/v5/statsd"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

// agentUnhealthyAfter is the number of consecutive failed sends after which
// the agent sink reports itself unhealthy. A single UDP hiccup should not
// flip a health probe.
const agentUnhealthyAfter = 3

// AgentSink pushes metrics to a local StatsD/DogStatsD agent using the
// protocol's native batched calls (count, gauge, histogram, timing) with
// tags rendered as "key:value" pairs.
//
// Connection problems are expected and swallowed: the sink records the
// failure, reports Healthy()==false after a few in a row, and recovers on
// the next successful send. It never propagates agent trouble to the
// collector beyond the returned error.
type AgentSink struct {
	client      statsd.ClientInterface
	consecutive atomic.Int64
	sampleRate  float64
}

// NewAgentSink connects to the agent at cfg.Address (host:port, typically
// localhost:8125). The connection is UDP, so construction only fails on
// address parse errors.
func NewAgentSink(cfg *config.AgentSinkConfig) (*AgentSink, error) {
	opts := []statsd.Option{}
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace+"."))
	}

	client, err := statsd.New(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client for %s: %w", cfg.Address, err)
	}

	return &AgentSink{
		client:     client,
		sampleRate: 1.0,
	}, nil
}

// newAgentSinkWithClient exists for tests.
func newAgentSinkWithClient(client statsd.ClientInterface) *AgentSink {
	return &AgentSink{client: client, sampleRate: 1.0}
}

// Name implements metrics.Sink.
func (s *AgentSink) Name() string { return "agent" }

// Send forwards one metric using the wire call matching its kind.
func (s *AgentSink) Send(_ context.Context, m metrics.Metric) error {
	tags := formatTags(m.Tags)

	var err error
	switch m.Kind {
	case metrics.KindCounter:
		err = s.client.Count(m.Name, int64(m.Value), tags, s.sampleRate)
	case metrics.KindGauge:
		err = s.client.Gauge(m.Name, m.Value, tags, s.sampleRate)
	case metrics.KindHistogram:
		err = s.client.Histogram(m.Name, m.Value, tags, s.sampleRate)
	case metrics.KindTimer:
		err = s.client.TimeInMilliseconds(m.Name, m.Value, tags, s.sampleRate)
	default:
		err = s.client.Gauge(m.Name, m.Value, tags, s.sampleRate)
	}

	s.track(err)
	return err
}

// SendBatch forwards a batch metric by metric. The statsd client buffers
// and coalesces writes internally, so per-metric calls still go out as
// batched datagrams. Delivery continues past individual failures; the
// first error is returned so the collector can count the batch as failed.
func (s *AgentSink) SendBatch(ctx context.Context, batch []metrics.Metric) error {
	var firstErr error
	for _, m := range batch {
		if err := s.Send(ctx, m); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.client.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Healthy reports false once several consecutive sends have failed.
func (s *AgentSink) Healthy() bool {
	return s.consecutive.Load() < agentUnhealthyAfter
}

// Close releases the underlying client.
func (s *AgentSink) Close() error {
	return s.client.Close()
}

func (s *AgentSink) track(err error) {
	if err != nil {
		s.consecutive.Add(1)
		return
	}
	s.consecutive.Store(0)
}

// formatTags renders a tag map as sorted "key:value" pairs. Sorting keeps
// datagrams stable for tests and for agent-side aggregation.
func formatTags(tags map[string]string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for k, v := range tags {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
