package metrics

import (
	"runtime"
	"sync/atomic"
	"time"
)

// lagProbeSleep is the nominal sleep used to measure scheduler lag: the
// difference between requested and actual wake-up time approximates how
// far behind the Go scheduler is running, analogous to event-loop lag in
// single-threaded runtimes.
const lagProbeSleep = 10 * time.Millisecond

// SystemProbe samples process health (heap pressure, goroutine count,
// scheduler lag) and feeds the samples through the collector as ordinary
// gauges. The threshold monitor sees them like any other metric stream;
// there is no dedicated alerting path for system health.
type SystemProbe struct {
	// sampling guards against overlapping lag measurements when a tick
	// fires while the previous probe goroutine is still asleep.
	sampling atomic.Bool
}

// NewSystemProbe creates a probe. It holds no resources; sampling cost is
// one ReadMemStats plus a short-lived goroutine.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{}
}

// Sample emits the current system health gauges.
//
// Emitted metrics:
//   - system.memory.heap_ratio: heap in use / heap reserved (0..1)
//   - system.memory.heap_alloc_bytes: live heap bytes
//   - system.goroutines: current goroutine count
//   - system.scheduler.lag_ms: wake-up drift of a short timer
//
// The lag measurement runs on its own goroutine so Sample never blocks
// the flush cycle.
func (p *SystemProbe) Sample(c *Collector) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	ratio := 0.0
	if ms.HeapSys > 0 {
		ratio = float64(ms.HeapAlloc) / float64(ms.HeapSys)
	}

	c.Gauge("system.memory.heap_ratio", ratio, nil)
	c.Gauge("system.memory.heap_alloc_bytes", float64(ms.HeapAlloc), nil)
	c.Gauge("system.goroutines", float64(runtime.NumGoroutine()), nil)

	if !p.sampling.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.sampling.Store(false)

		start := time.Now()
		time.Sleep(lagProbeSleep)
		lag := time.Since(start) - lagProbeSleep
		if lag < 0 {
			lag = 0
		}
		c.Gauge("system.scheduler.lag_ms", float64(lag)/float64(time.Millisecond), nil)
	}()
}
