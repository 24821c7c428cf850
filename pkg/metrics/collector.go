package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"adastra-hq/pulse/pkg/config"
)

// sinkSendTimeout bounds a single sink dispatch so one stuck sink cannot
// hold flush goroutines forever.
const sinkSendTimeout = 5 * time.Second

// Observer receives every ingested metric synchronously, before it is
// buffered. Observers must be fast and must not block; the threshold
// monitor is the intended consumer.
type Observer func(Metric)

// Collector owns the in-memory metric buffer and the fan-out to sinks.
//
// Ingestion calls (Counter, Gauge, Histogram, Timer) are non-blocking and
// never return an error: metrics are a best-effort signal, and a telemetry
// problem must never surface in request handling. The buffer is bounded by
// BufferSize; the append that reaches capacity triggers a forced flush on a
// background goroutine, and a scheduler drives time-based flushes through
// the same Flush path.
//
// Flush takes ownership of the current batch by swapping in a fresh one
// under the mutex, then dispatches the old batch to every sink in parallel.
// Producers are therefore never blocked on sink I/O, and a metric lands in
// exactly one dispatched batch. Delivery is at-most-once by design: a
// failed sink send is logged and counted, never retried.
//
// Collectors are constructed explicitly and injected where needed; there is
// no package-level singleton.
type Collector struct {
	cfg    *config.MetricsConfig
	logger *slog.Logger

	mu    sync.Mutex
	batch []Metric

	sinks     []Sink
	observers []Observer

	closedMu sync.RWMutex
	closed   bool

	// dispatchWG tracks in-flight dispatches so Shutdown can wait for them.
	dispatchWG sync.WaitGroup
}

// Option customizes a Collector at construction time.
type Option func(*Collector)

// WithObserver registers an observer invoked synchronously for every
// ingested metric.
func WithObserver(obs Observer) Option {
	return func(c *Collector) {
		c.observers = append(c.observers, obs)
	}
}

// WithLogger sets the logger used for sink failures and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a collector that delivers to the given sinks.
// Sinks are fixed for the collector's lifetime; absence of any sink is
// valid (ingested metrics are dropped at flush, observers still fire).
// A nil cfg yields an enabled collector with the default buffer size.
func NewCollector(cfg *config.MetricsConfig, sinks []Sink, opts ...Option) *Collector {
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = config.DefaultMetricsBufferSize
	}

	c := &Collector{
		cfg:    cfg,
		logger: slog.Default().With("component", "metrics.collector"),
		batch:  make([]Metric, 0, cfg.BufferSize),
		sinks:  sinks,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Counter records a count increment. Use delta 1 for simple event counts.
func (c *Collector) Counter(name string, delta float64, tags map[string]string) {
	c.ingest(NewMetric(name, delta, KindCounter, tags))
}

// Gauge records an instantaneous value.
func (c *Collector) Gauge(name string, value float64, tags map[string]string) {
	c.ingest(NewMetric(name, value, KindGauge, tags))
}

// Histogram records a sampled value for distribution analysis.
func (c *Collector) Histogram(name string, value float64, tags map[string]string) {
	c.ingest(NewMetric(name, value, KindHistogram, tags))
}

// Timer records a duration. The value is stored in milliseconds.
func (c *Collector) Timer(name string, d time.Duration, tags map[string]string) {
	c.ingest(NewMetric(name, float64(d)/float64(time.Millisecond), KindTimer, tags))
}

// ingest appends a metric to the active batch, notifying observers first.
// The append that fills the buffer swaps the batch out and dispatches it on
// a background goroutine so the caller never waits on sink I/O.
//
// An internal panic here would be a programming error; it is recovered and
// counted so a telemetry bug cannot take down a request handler.
func (c *Collector) ingest(m Metric) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic during metric ingestion",
				"metric", m.Name,
				"panic", r,
			)
		}
	}()

	if !c.cfg.Enabled {
		return
	}

	c.closedMu.RLock()
	if c.closed {
		c.closedMu.RUnlock()
		return
	}
	c.closedMu.RUnlock()

	for _, obs := range c.observers {
		obs(m)
	}

	var full []Metric

	c.mu.Lock()
	c.batch = append(c.batch, m)
	if len(c.batch) >= c.cfg.BufferSize {
		full = c.batch
		c.batch = make([]Metric, 0, c.cfg.BufferSize)
	}
	c.mu.Unlock()

	if full != nil {
		c.dispatchWG.Add(1)
		go func() {
			defer c.dispatchWG.Done()
			c.dispatch(context.Background(), full)
		}()
	}
}

// Flush swaps out the current batch and dispatches it to all sinks.
// Called by the scheduler on the flush interval; safe to call concurrently
// with ingestion and with other flushes. A no-op when the batch is empty.
func (c *Collector) Flush() {
	c.mu.Lock()
	if len(c.batch) == 0 {
		c.mu.Unlock()
		return
	}
	full := c.batch
	c.batch = make([]Metric, 0, c.cfg.BufferSize)
	c.mu.Unlock()

	c.dispatchWG.Add(1)
	defer c.dispatchWG.Done()
	c.dispatch(context.Background(), full)
}

// dispatch fans a batch out to every sink in parallel. Each sink gets its
// own goroutine, deadline, and error boundary: one slow or failing sink
// must not delay or fail delivery to the others.
func (c *Collector) dispatch(ctx context.Context, batch []Metric) {
	if len(c.sinks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, s := range c.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("panic in sink delivery",
						"sink", s.Name(),
						"panic", r,
					)
					c.recordSinkFailure(s.Name())
				}
			}()

			sendCtx, cancel := context.WithTimeout(ctx, sinkSendTimeout)
			defer cancel()

			if err := s.SendBatch(sendCtx, batch); err != nil {
				c.logger.Warn("sink delivery failed",
					"sink", s.Name(),
					"batch_size", len(batch),
					"error", err,
				)
				c.recordSinkFailure(s.Name())
			}
		}(s)
	}
	wg.Wait()
}

// recordSinkFailure feeds the failure back into the pipeline as a regular
// metric so sink health is itself observable. The metric lands in the next
// batch; the failed batch is not retried.
func (c *Collector) recordSinkFailure(sinkName string) {
	c.Counter("sink.failures", 1, map[string]string{"sink": sinkName})
}

// HealthCheck reports per-sink health. Intended for liveness endpoints;
// the flush path never consults it.
func (c *Collector) HealthCheck() map[string]bool {
	health := make(map[string]bool, len(c.sinks))
	for _, s := range c.sinks {
		health[s.Name()] = s.Healthy()
	}
	return health
}

// BufferedCount returns the number of metrics waiting in the active batch.
func (c *Collector) BufferedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batch)
}

// ServiceName returns the configured service identity for this collector.
func (c *Collector) ServiceName() string {
	return c.cfg.ServiceName
}

// Shutdown stops ingestion and attempts one final flush bounded by the
// context deadline. Metrics still buffered when the deadline expires are
// dropped: telemetry is best-effort and must not hold up process exit.
func (c *Collector) Shutdown(ctx context.Context) error {
	c.closedMu.Lock()
	if c.closed {
		c.closedMu.Unlock()
		return nil
	}
	c.closed = true
	c.closedMu.Unlock()

	done := make(chan struct{})
	go func() {
		c.Flush()
		c.dispatchWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("collector shut down, final flush delivered")
		return nil
	case <-ctx.Done():
		c.logger.Warn("collector shutdown deadline reached, dropping buffered metrics",
			"dropped", c.BufferedCount(),
		)
		return ctx.Err()
	}
}
