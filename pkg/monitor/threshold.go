package monitor

import "fmt"

// Comparator is the comparison operator a threshold applies to observed
// values.
type Comparator string

const (
	ComparatorGT  Comparator = ">"
	ComparatorGTE Comparator = ">="
	ComparatorLT  Comparator = "<"
	ComparatorLTE Comparator = "<="
	ComparatorEQ  Comparator = "=="
)

// ParseComparator validates a comparator string from configuration.
func ParseComparator(s string) (Comparator, error) {
	switch Comparator(s) {
	case ComparatorGT, ComparatorGTE, ComparatorLT, ComparatorLTE, ComparatorEQ:
		return Comparator(s), nil
	default:
		return "", fmt.Errorf("unknown comparator %q (want one of > >= < <= ==)", s)
	}
}

// Compare evaluates value against limit.
func (c Comparator) Compare(value, limit float64) bool {
	switch c {
	case ComparatorGT:
		return value > limit
	case ComparatorGTE:
		return value >= limit
	case ComparatorLT:
		return value < limit
	case ComparatorLTE:
		return value <= limit
	case ComparatorEQ:
		return value == limit
	default:
		return false
	}
}

// Threshold is one watched metric limit. It is static configuration,
// read-only at runtime; the monitor evaluates it against live values and
// never persists anything.
type Threshold struct {
	// Metric is the metric name this threshold watches
	// (e.g. "requests.duration").
	Metric string

	// Comparator is applied as value COMPARATOR limit.
	Comparator Comparator

	// Limit is the boundary value.
	Limit float64

	// Severity overrides the derived severity when set.
	Severity Severity
}

// DefaultThresholds builds the baseline watch list from the middleware's
// performance limits: the rolling request error ratio and the heap usage
// ratio. A zero or negative limit disables the corresponding entry.
// Configured thresholds are appended on top of these.
func DefaultThresholds(errorRateRatio, memoryUsageRatio float64) []Threshold {
	var thresholds []Threshold
	if errorRateRatio > 0 {
		thresholds = append(thresholds, Threshold{
			Metric:     "requests.error_rate",
			Comparator: ComparatorGT,
			Limit:      errorRateRatio,
			Severity:   SeverityHigh,
		})
	}
	if memoryUsageRatio > 0 {
		thresholds = append(thresholds, Threshold{
			Metric:     "system.memory.heap_ratio",
			Comparator: ComparatorGT,
			Limit:      memoryUsageRatio,
		})
	}
	return thresholds
}
