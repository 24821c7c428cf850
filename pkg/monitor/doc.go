// Package monitor implements threshold-based alerting over the live metric
// stream.
//
// The monitor observes every ingested metric synchronously (it registers
// as a collector observer, independent of any sink) and compares values
// against configured thresholds. A breach emits an alerts.triggered
// counter tagged with the offending metric, derived severity, and endpoint
// when known, then the watched key immediately returns to nominal. There
// is no acknowledgement state, no hysteresis, and no cleared events;
// paging and routing are the concern of whatever consumes the alerts.*
// stream.
package monitor
