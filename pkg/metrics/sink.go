package metrics

import "context"

// Sink is a pluggable destination for metrics. Implementations live in
// pkg/metrics/sink; the collector only depends on this contract.
//
// SendBatch is the primary delivery path: the collector hands each drained
// batch to every registered sink independently, so one sink's failure never
// affects delivery to the others. Send exists for callers that need to push
// a single metric outside the batching pipeline (health probes, tests).
//
// Implementations must treat delivery errors as routine: return the error,
// update their own health state, and never panic. Delivery is at-most-once;
// the collector does not retry a failed batch.
type Sink interface {
	// Name identifies the sink in logs and health check results.
	Name() string

	// Send delivers a single metric.
	Send(ctx context.Context, m Metric) error

	// SendBatch delivers a batch of metrics as a unit.
	SendBatch(ctx context.Context, batch []Metric) error

	// Healthy reports whether the sink believes it can currently deliver.
	Healthy() bool
}
