// Package sink provides the built-in metric sink implementations: console
// (dev fallback), agent (StatsD/DogStatsD push), webhook (JSON POST), and
// prometheus (pull-based registry bridge).
//
// All sinks implement the metrics.Sink contract. They are constructed once
// at startup from configuration by BuildSinks; a destination that is not
// configured is simply not built. With zero configuration the pipeline
// still works: BuildSinks falls back to the console sink so metrics remain
// observable during development.
//
// Sinks treat delivery failure as routine. They return the error to the
// collector (which logs and counts it), flip their own health state, and
// never panic or block beyond the context deadline the collector imposes.
package sink
