package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// Context keys for values attached to the request context.
const (
	// RequestIDKey stores the unique request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"

	// UserIDKey stores the user ID attached by upstream authentication.
	UserIDKey contextKey = "user_id"

	// ClientIDKey stores the client (tenant) ID attached upstream.
	ClientIDKey contextKey = "client_id"
)
