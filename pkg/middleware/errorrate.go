package middleware

import (
	"net/http"
	"sync/atomic"

	"adastra-hq/pulse/pkg/metrics"
)

// ErrorRateProbe turns per-request completions into a rolling error ratio.
// Per-event counters like requests.errors cannot express a rate, so the
// threshold monitor watches this instead: errored completions over total
// completions since the last sample, emitted as the requests.error_rate
// gauge.
//
// The instrumentation feeds it through Config.ErrorRate; the flush
// scheduler drives Sample, so the window matches the flush interval. Only
// sampled requests are counted, which keeps the ratio consistent with the
// per-event counters under partial sampling.
type ErrorRateProbe struct {
	completed atomic.Int64
	errored   atomic.Int64
}

// NewErrorRateProbe creates an empty probe. Attach it to the middleware via
// Config.ErrorRate and register it with the flush scheduler.
func NewErrorRateProbe() *ErrorRateProbe {
	return &ErrorRateProbe{}
}

// observe records one completed request in the current window.
func (p *ErrorRateProbe) observe(status int) {
	p.completed.Add(1)
	if status >= http.StatusBadRequest {
		p.errored.Add(1)
	}
}

// Sample emits the window's error ratio and starts a new window. A window
// with no completed requests emits nothing rather than a misleading zero.
func (p *ErrorRateProbe) Sample(c *metrics.Collector) {
	completed := p.completed.Swap(0)
	errored := p.errored.Swap(0)
	if completed == 0 {
		return
	}
	c.Gauge("requests.error_rate", float64(errored)/float64(completed), nil)
}
