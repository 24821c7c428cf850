package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Probe samples ambient state into the collector once per flush cycle.
// SystemProbe covers runtime health; the middleware contributes a rolling
// error-rate probe.
type Probe interface {
	Sample(c *Collector)
}

// CombineProbes returns a probe that samples each given probe in order.
// Nil entries are skipped.
func CombineProbes(probes ...Probe) Probe {
	return multiProbe(probes)
}

type multiProbe []Probe

func (m multiProbe) Sample(c *Collector) {
	for _, p := range m {
		if p != nil {
			p.Sample(c)
		}
	}
}

// Scheduler drives the time-based flush cycle and the probes on the
// collector's flush interval. Capacity-triggered flushes happen inside the
// collector itself; the scheduler only guarantees that metrics from a quiet
// period still leave the buffer within one interval.
type Scheduler struct {
	collector *Collector
	probe     Probe
	interval  time.Duration
	cron      *cron.Cron
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the collector. A nil probe disables
// ambient sampling. Intervals below one second are rounded up: the cron
// runner has second granularity, and sub-second flush cadences are a test
// concern, not a production one.
func NewScheduler(c *Collector, probe Probe, interval time.Duration) *Scheduler {
	if interval < time.Second {
		interval = time.Second
	}
	return &Scheduler{
		collector: c,
		probe:     probe,
		interval:  interval,
		cron:      cron.New(cron.WithSeconds()),
		logger:    slog.Default().With("component", "metrics.scheduler"),
	}
}

// Start begins the periodic flush. The scheduler stops itself when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return fmt.Errorf("failed to schedule flush: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("flush scheduler started",
		"interval", s.interval.String(),
		"probe", s.probe != nil,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// tick runs one scheduled cycle: sample the probes first so their gauges
// ride along in the batch being flushed on the next pass.
func (s *Scheduler) tick() {
	if s.probe != nil {
		s.probe.Sample(s.collector)
	}
	s.collector.Flush()
}

// Stop halts the periodic flush. It does not flush; callers that want a
// final delivery use Collector.Shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false

	s.logger.Info("flush scheduler stopped")
}
