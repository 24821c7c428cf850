package monitor

import "strings"

// Severity ranks how urgently an alert should be treated downstream.
// Pulse only tags alert events with it; routing (paging, email) belongs to
// an external collaborator.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// deriveSeverity applies the severity decision table to a breached metric:
//
//	critical: database failures, security signals, memory exhaustion
//	high:     authentication failures, 5xx responses, payment paths
//	medium:   validation failures, 4xx responses
//	low:      everything else
//
// The metric name and its error_category / status_class tags are the
// inputs; thresholds with an explicit severity skip this entirely.
func deriveSeverity(metricName string, tags map[string]string) Severity {
	category := tags["error_category"]
	statusClass := tags["status_class"]

	switch {
	case category == "database",
		strings.Contains(metricName, "database"),
		strings.Contains(metricName, "security"),
		strings.Contains(metricName, "memory"):
		return SeverityCritical

	case category == "authentication",
		statusClass == "5xx",
		strings.Contains(metricName, "server_errors"),
		strings.Contains(metricName, "unauthorized"),
		strings.Contains(metricName, "payment"):
		return SeverityHigh

	case category == "validation",
		statusClass == "4xx",
		strings.Contains(metricName, "not_found"),
		strings.Contains(metricName, "forbidden"):
		return SeverityMedium

	default:
		return SeverityLow
	}
}
