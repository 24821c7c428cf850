package middleware

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"adastra-hq/pulse/pkg/endpoint"
	"adastra-hq/pulse/pkg/metrics"
)

// verySlowThreshold is the fixed limit above which a request counts as
// very slow, regardless of the configured slow threshold.
const verySlowThreshold = 5 * time.Second

// Instrument returns a middleware that emits a completion metric set for
// every sampled request: counts, duration, status class, response size,
// slow-request flags, and status-specific error counters, all tagged with
// the normalized endpoint and its business category.
//
// Behavior:
//   - Sampling happens at request entry. An unsampled request runs the
//     wrapped handler untouched and emits nothing.
//   - Completion metrics are emitted exactly once per request. The normal
//     return and the panic path share an idempotency guard, so a handler
//     that panics after writing its response is still counted once.
//   - A panic is observed (status 500 if no response was committed, plus an
//     errors.total counter tagged with a category derived from the panic
//     message) and then re-raised unchanged. Recovery belongs to the outer
//     recovery middleware; instrumentation never swallows errors.
//   - A handler that never completes is not timed out here; upstream
//     timeout middleware owns that.
//
// Example usage:
//
//	instrument := middleware.Instrument(collector, middleware.DefaultConfig())
//	handler = instrument(handler)
func Instrument(c *metrics.Collector, cfg *Config) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	slowThreshold := cfg.Thresholds.ResponseTime
	if slowThreshold <= 0 {
		slowThreshold = time.Second
	}

	// In-flight gauge state is shared by every handler this middleware wraps.
	var inFlight atomic.Int64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.SamplingRate <= 0 || rand.Float64() > cfg.SamplingRate {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			normalized := endpoint.Normalize(r.URL.Path)
			tags := baseTags(cfg, r, normalized)

			if cfg.TrackRequestCount {
				c.Counter("requests.started", 1, tags)
			}
			c.Gauge("requests.concurrent", float64(inFlight.Add(1)), nil)

			rec := newStatusRecorder(w)

			var once sync.Once
			finish := func(status int) {
				once.Do(func() {
					duration := time.Since(start)
					emitCompletion(c, cfg, tags, status, rec.bytes, duration, slowThreshold)
					c.Gauge("requests.concurrent", float64(inFlight.Add(-1)), nil)
				})
			}

			defer func() {
				if rv := recover(); rv != nil {
					if cfg.TrackErrorRate {
						c.Counter("errors.total", 1, withTag(tags,
							"error_category", categorizeError(fmt.Sprint(rv))))
					}
					status := http.StatusInternalServerError
					if rec.written {
						status = rec.statusCode
					}
					finish(status)
					panic(rv)
				}
				finish(rec.statusCode)
			}()

			ctx := context.WithValue(r.Context(), StartTimeKey, start)
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				ctx = context.WithValue(ctx, UserIDKey, userID)
			}
			if clientID := r.Header.Get("X-Client-ID"); clientID != "" {
				ctx = context.WithValue(ctx, ClientIDKey, clientID)
			}

			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}

// baseTags builds the tag set shared by every metric for the request.
// User and client identity stay in the context only: identifiers are
// unbounded and would explode tag cardinality.
func baseTags(cfg *Config, r *http.Request, normalized string) map[string]string {
	tags := map[string]string{
		"method":     r.Method,
		"endpoint":   normalized,
		"category":   string(endpoint.Categorize(normalized)),
		"user_agent": categorizeUserAgent(r.UserAgent()),
	}
	for k, v := range cfg.CustomTags {
		tags[k] = v
	}
	return tags
}

// emitCompletion emits the completion metric set for one finished request.
func emitCompletion(c *metrics.Collector, cfg *Config, tags map[string]string,
	status int, size int64, duration time.Duration, slowThreshold time.Duration) {

	statusTags := withTag(tags, "status_code", fmt.Sprintf("%d", status))
	statusTags["status_class"] = fmt.Sprintf("%dxx", status/100)

	if cfg.TrackRequestCount {
		c.Counter("requests.total", 1, statusTags)
		c.Counter("requests.completed", 1, tags)
		if status < 400 {
			c.Counter("requests.success", 1, tags)
		}
		if size > 0 {
			c.Histogram("response.size", float64(size), tags)
		}
	}

	if cfg.TrackResponseTime {
		c.Timer("requests.duration", duration, tags)
		if duration > slowThreshold {
			c.Counter("requests.slow", 1, tags)
		}
		if duration > verySlowThreshold {
			c.Counter("requests.very_slow", 1, tags)
		}
	}

	if cfg.TrackErrorRate {
		if cfg.ErrorRate != nil {
			cfg.ErrorRate.observe(status)
		}
		if status >= 400 {
			c.Counter("requests.errors", 1, statusTags)
		}
		switch {
		case status == http.StatusNotFound:
			c.Counter("requests.not_found", 1, tags)
		case status == http.StatusUnauthorized:
			c.Counter("requests.unauthorized", 1, tags)
		case status == http.StatusForbidden:
			c.Counter("requests.forbidden", 1, tags)
		case status == http.StatusTooManyRequests:
			c.Counter("requests.rate_limited", 1, tags)
		case status >= 500:
			c.Counter("requests.server_errors", 1, statusTags)
		}
	}
}

// withTag copies the tag map and adds one entry, leaving the original
// untouched for the next emission.
func withTag(tags map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		out[k] = v
	}
	out[key] = value
	return out
}

// GetStartTime extracts the request start time from the context. Returns
// zero time if the request was not sampled.
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

// GetUserID extracts the upstream-attached user ID from the context.
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetClientID extracts the upstream-attached client ID from the context.
func GetClientID(ctx context.Context) string {
	if clientID, ok := ctx.Value(ClientIDKey).(string); ok {
		return clientID
	}
	return ""
}
