package metrics

import (
	"time"
)

// Kind identifies how a metric value should be interpreted and aggregated
// by downstream sinks.
type Kind int

const (
	// KindCounter is a monotonically increasing count (deltas are summed).
	KindCounter Kind = iota

	// KindGauge is an instantaneous value (last write wins).
	KindGauge

	// KindHistogram is a sampled value distribution (sizes, scores).
	KindHistogram

	// KindTimer is a duration measurement in milliseconds.
	KindTimer
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	case KindTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// Metric is a single immutable telemetry sample.
//
// Name is a stable dot-separated lower-case identifier (e.g.
// "api.requests.total"). Tags carry low-cardinality dimensions; callers are
// responsible for bounding tag values (the endpoint package collapses raw
// request paths for exactly this reason). Timestamp is set at ingestion time.
type Metric struct {
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Kind      Kind              `json:"kind"`
	Tags      map[string]string `json:"tags,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewMetric creates a metric stamped with the current time. The tag map is
// copied so the metric stays immutable even if the caller reuses the map.
func NewMetric(name string, value float64, kind Kind, tags map[string]string) Metric {
	return Metric{
		Name:      name,
		Value:     value,
		Kind:      kind,
		Tags:      copyTags(tags),
		Timestamp: time.Now(),
	}
}

func copyTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		cp[k] = v
	}
	return cp
}
