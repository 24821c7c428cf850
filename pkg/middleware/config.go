package middleware

import "time"

// PerformanceThresholds are the limits the instrumentation tags against and
// the threshold monitor typically watches.
type PerformanceThresholds struct {
	// ResponseTime is the duration above which a request is counted as
	// slow. Default: 1s.
	ResponseTime time.Duration

	// ErrorRateRatio is the tolerated error ratio (0..1) for the
	// deployment; consumed by the threshold monitor, not enforced here.
	ErrorRateRatio float64

	// MemoryUsageRatio is the tolerated heap usage ratio (0..1); consumed
	// by the threshold monitor.
	MemoryUsageRatio float64
}

// Config controls what the instrumentation middleware emits.
type Config struct {
	// TrackRequestCount enables the request count and size metrics.
	// Default: true.
	TrackRequestCount bool

	// TrackResponseTime enables duration timers and slow-request counters.
	// Default: true.
	TrackResponseTime bool

	// TrackErrorRate enables error counters and status-specific counters.
	// Default: true.
	TrackErrorRate bool

	// SamplingRate is the probability (0..1) that a request is
	// instrumented at all. Unsampled requests pass through untouched and
	// emit nothing. Default: 1.0.
	SamplingRate float64

	// CustomTags are added to every metric emitted for a request
	// (deployment, region, and the like).
	CustomTags map[string]string

	// Thresholds are the performance limits used for slow-request
	// classification and handed to the threshold monitor.
	Thresholds PerformanceThresholds

	// ErrorRate, when set, is fed every completion so it can emit the
	// rolling requests.error_rate gauge on the flush cadence. Gated by
	// TrackErrorRate like the other error signals.
	ErrorRate *ErrorRateProbe
}

// DefaultConfig returns the middleware defaults: everything tracked, every
// request sampled, slow at 1s.
func DefaultConfig() *Config {
	return &Config{
		TrackRequestCount: true,
		TrackResponseTime: true,
		TrackErrorRate:    true,
		SamplingRate:      1.0,
		Thresholds: PerformanceThresholds{
			ResponseTime:     time.Second,
			ErrorRateRatio:   0.05,
			MemoryUsageRatio: 0.90,
		},
	}
}
