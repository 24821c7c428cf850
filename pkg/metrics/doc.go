// Package metrics implements the buffered, multi-sink metrics collector at
// the heart of the Pulse telemetry pipeline.
//
// # Overview
//
// The collector exposes four ingestion calls (Counter, Gauge, Histogram,
// Timer) plus start/stop timer handles. Ingested metrics accumulate in a
// bounded in-memory batch; the batch is handed to every registered sink
// when it fills up or when the flush interval elapses, whichever comes
// first. Sinks receive batches in parallel with independent error
// boundaries.
//
// # Delivery semantics
//
// Delivery is best-effort and at-most-once. A metric appended before a
// flush lands in exactly one dispatched batch; a sink that fails to accept
// a batch does not get it again, and the failure is logged, counted via the
// sink.failures signal, and otherwise ignored. This is an intentional
// simplicity tradeoff: metrics are a signal, not a transaction log, and a
// durable retry queue would buy little at real cost. Do not add one.
//
// # Usage
//
//	sinks := sink.BuildSinks(&cfg.Telemetry.Metrics.Sinks, cfg.Telemetry.Metrics.ServiceName, slog.Default())
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, sinks,
//		metrics.WithObserver(mon.Observe),
//	)
//
//	sched := metrics.NewScheduler(collector, metrics.NewSystemProbe(), cfg.Telemetry.Metrics.FlushInterval)
//	if err := sched.Start(ctx); err != nil {
//		return err
//	}
//
//	collector.Counter("campaigns.created", 1, map[string]string{"plan": "pro"})
//	h := collector.StartTimer("ai.copy_score.duration", nil)
//	// ... do work ...
//	h.Stop()
//
// # Concurrency
//
// All ingestion calls are safe for concurrent use and never block on sink
// I/O: the flush path swaps in a fresh batch under the mutex and dispatches
// the old one outside it. Appends that arrive during a flush land in the
// new batch.
package metrics
