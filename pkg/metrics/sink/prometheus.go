package sink

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
)

// defaultDurationBucketsMs covers request latencies from fast cache hits to
// stuck AI/video calls.
var defaultDurationBucketsMs = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// PrometheusSink bridges collector batches into a Prometheus registry so
// the pipeline can be scraped at /metrics. It is pull-based: SendBatch only
// updates in-process collectors and never performs I/O, so it cannot fail
// and is always healthy.
//
// Metric families are created lazily from the first sample seen for a
// name; the label key set is fixed at that point and later samples are
// projected onto it (missing tags become empty labels). A cardinality
// limiter caps unique label sets per registry; overflowing label sets are
// folded into "other" instead of growing the registry without bound.
type PrometheusSink struct {
	registry        *prometheus.Registry
	namespace       string
	subsystem       string
	durationBuckets []float64
	sizeBuckets     []float64

	mu       sync.Mutex
	families map[string]*promFamily
	limiter  *CardinalityLimiter
}

// promFamily is one registered metric family plus the label keys fixed at
// creation time.
type promFamily struct {
	labelKeys []string
	counter   *prometheus.CounterVec
	gauge     *prometheus.GaugeVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusSink creates a sink backed by its own registry.
func NewPrometheusSink(cfg *config.PrometheusSinkConfig) *PrometheusSink {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "adastra"
	}
	subsystem := cfg.Subsystem
	if subsystem == "" {
		subsystem = "pulse"
	}
	durationBuckets := cfg.DurationBuckets
	if len(durationBuckets) == 0 {
		durationBuckets = defaultDurationBucketsMs
	}
	sizeBuckets := cfg.SizeBuckets
	if len(sizeBuckets) == 0 {
		sizeBuckets = prometheus.ExponentialBuckets(256, 4, 8) // 256B to 4GB
	}

	return &PrometheusSink{
		registry:        prometheus.NewRegistry(),
		namespace:       namespace,
		subsystem:       subsystem,
		durationBuckets: durationBuckets,
		sizeBuckets:     sizeBuckets,
		families:        make(map[string]*promFamily),
		limiter:         NewCardinalityLimiter(10000),
	}
}

// Name implements metrics.Sink.
func (s *PrometheusSink) Name() string { return "prometheus" }

// Registry returns the backing registry for use with promhttp:
//
//	http.Handle("/metrics", promhttp.HandlerFor(sink.Registry(), promhttp.HandlerOpts{}))
func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

// Send records a single metric.
func (s *PrometheusSink) Send(_ context.Context, m metrics.Metric) error {
	s.record(m)
	return nil
}

// SendBatch records every metric in the batch. In-process updates cannot
// fail; the error return exists only to satisfy the sink contract.
func (s *PrometheusSink) SendBatch(_ context.Context, batch []metrics.Metric) error {
	for _, m := range batch {
		s.record(m)
	}
	return nil
}

// Healthy always reports true; the sink performs no I/O.
func (s *PrometheusSink) Healthy() bool { return true }

// record updates the family for one metric. A name reused with a different
// kind is a caller bug: the family keeps the kind it was registered with,
// and mismatched samples are dropped so the sink never panics on them.
func (s *PrometheusSink) record(m metrics.Metric) {
	fam := s.family(m)

	values := s.labelValues(m, fam.labelKeys)

	switch m.Kind {
	case metrics.KindCounter:
		if fam.counter == nil {
			return
		}
		fam.counter.WithLabelValues(values...).Add(m.Value)
	case metrics.KindGauge:
		if fam.gauge == nil {
			return
		}
		fam.gauge.WithLabelValues(values...).Set(m.Value)
	case metrics.KindHistogram, metrics.KindTimer:
		if fam.histogram == nil {
			return
		}
		fam.histogram.WithLabelValues(values...).Observe(m.Value)
	}
}

// family returns the registered family for the metric's name, creating and
// registering it from this sample's tag keys on first sight.
func (s *PrometheusSink) family(m metrics.Metric) *promFamily {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fam, ok := s.families[m.Name]; ok {
		return fam
	}

	labelKeys := make([]string, 0, len(m.Tags))
	for k := range m.Tags {
		labelKeys = append(labelKeys, k)
	}
	sort.Strings(labelKeys)

	name := promName(m.Name)
	fam := &promFamily{labelKeys: labelKeys}

	switch m.Kind {
	case metrics.KindCounter:
		fam.counter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: s.namespace,
				Subsystem: s.subsystem,
				Name:      name + "_total",
				Help:      "Pulse counter " + m.Name,
			},
			labelKeys,
		)
		s.registry.MustRegister(fam.counter)
	case metrics.KindGauge:
		fam.gauge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: s.namespace,
				Subsystem: s.subsystem,
				Name:      name,
				Help:      "Pulse gauge " + m.Name,
			},
			labelKeys,
		)
		s.registry.MustRegister(fam.gauge)
	case metrics.KindTimer:
		fam.histogram = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: s.namespace,
				Subsystem: s.subsystem,
				Name:      name + "_ms",
				Help:      "Pulse timer " + m.Name + " in milliseconds",
				Buckets:   s.durationBuckets,
			},
			labelKeys,
		)
		s.registry.MustRegister(fam.histogram)
	default:
		fam.histogram = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: s.namespace,
				Subsystem: s.subsystem,
				Name:      name,
				Help:      "Pulse histogram " + m.Name,
				Buckets:   s.sizeBuckets,
			},
			labelKeys,
		)
		s.registry.MustRegister(fam.histogram)
	}

	s.families[m.Name] = fam
	return fam
}

// labelValues projects the metric's tags onto the family's fixed label
// keys. Label sets past the cardinality limit collapse into "other".
func (s *PrometheusSink) labelValues(m metrics.Metric, keys []string) []string {
	if len(keys) == 0 {
		return nil
	}

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = m.Tags[k]
	}

	if !s.limiter.Allow(m.Name + "|" + strings.Join(values, "|")) {
		for i := range values {
			values[i] = "other"
		}
	}
	return values
}

// promName converts a dotted metric name to Prometheus conventions.
func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// CardinalityLimiter caps the number of unique label sets the sink will
// create, protecting registry memory from unbounded tag values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter allowing at most maxCardinality
// unique label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether the label set may be recorded as-is. Known sets are
// always allowed; new sets are allowed until the limit is reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
