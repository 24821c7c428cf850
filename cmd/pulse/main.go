// Pulse is the telemetry core of the Adastra marketing-operations
// platform.
//
// It provides:
//   - Buffered, multi-sink metrics collection (console, agent, webhook,
//     Prometheus)
//   - Automatic HTTP request instrumentation with endpoint normalization
//   - Threshold-based alerting over the live metric stream
//
// Usage:
//
//	# Start the ops server with default configuration
//	pulse run
//
//	# Start with a custom configuration file
//	pulse run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	pulse validate --config /path/to/config.yaml
//
//	# Show version information
//	pulse version
package main

func main() {
	Execute()
}
