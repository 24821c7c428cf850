package middleware

import "strings"

// errorCategoryRules is evaluated in order; the first matching substring
// wins. Rate limiting and database come before network because their
// messages often mention connections and timeouts too.
var errorCategoryRules = []struct {
	substr   string
	category string
}{
	{"rate limit", "rate-limiting"},
	{"too many requests", "rate-limiting"},
	{"quota", "rate-limiting"},
	{"validation", "validation"},
	{"invalid", "validation"},
	{"required field", "validation"},
	{"unauthorized", "authentication"},
	{"forbidden", "authentication"},
	{"auth", "authentication"},
	{"credential", "authentication"},
	{"token expired", "authentication"},
	{"database", "database"},
	{"sql", "database"},
	{"constraint", "database"},
	{"duplicate key", "database"},
	{"openai", "ai-service"},
	{"anthropic", "ai-service"},
	{"model", "ai-service"},
	{"completion", "ai-service"},
	{"timeout", "network"},
	{"connection", "network"},
	{"network", "network"},
	{"dns", "network"},
	{"refused", "network"},
}

// categorizeError buckets an error message (or panic value rendered as a
// string) into a small vocabulary for the errors.total tag and for alert
// severity derivation. Unmatched messages are "unknown".
func categorizeError(msg string) string {
	if msg == "" {
		return "unknown"
	}
	msg = strings.ToLower(msg)
	for _, rule := range errorCategoryRules {
		if strings.Contains(msg, rule.substr) {
			return rule.category
		}
	}
	return "unknown"
}
