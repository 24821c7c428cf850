package metrics

import (
	"sync/atomic"
	"time"
)

// TimerHandle measures elapsed time between StartTimer and Stop using the
// monotonic clock. Stop is idempotent; only the first call records.
type TimerHandle struct {
	c       *Collector
	name    string
	tags    map[string]string
	start   time.Time
	stopped atomic.Bool
}

// StartTimer begins a named duration measurement.
//
// Example:
//
//	h := collector.StartTimer("render.queue.wait", map[string]string{"queue": "video"})
//	defer h.Stop()
func (c *Collector) StartTimer(name string, tags map[string]string) *TimerHandle {
	return &TimerHandle{
		c:     c,
		name:  name,
		tags:  copyTags(tags),
		start: time.Now(),
	}
}

// Stop records the elapsed duration as a timer metric. Subsequent calls
// are no-ops.
func (h *TimerHandle) Stop() time.Duration {
	elapsed := time.Since(h.start)
	if h.stopped.CompareAndSwap(false, true) {
		h.c.Timer(h.name, elapsed, h.tags)
	}
	return elapsed
}
