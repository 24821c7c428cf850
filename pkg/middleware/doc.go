// Package middleware provides HTTP middleware for the Pulse telemetry
// pipeline: request instrumentation, request IDs, and panic recovery.
//
// # Chain order
//
// The intended chain, outermost first:
//
//	handler = middleware.Recovery(
//	    middleware.RequestID(
//	        middleware.Instrument(collector, cfg)(mux)))
//
// Instrument observes panics and re-raises them; Recovery converts them to
// a 500 response. Putting Recovery inside Instrument would hide handler
// panics from the error metrics.
//
// # What gets emitted
//
// For every sampled request the instrumentation emits requests.started on
// entry and, exactly once on completion: requests.total, requests.completed,
// requests.success or requests.errors, a requests.duration timer, a
// response.size histogram when the body size is known, requests.slow and
// requests.very_slow past the 1s/5s marks, and specialized counters for
// 401/403/404/429/5xx. All metrics carry the normalized endpoint, its
// business category, the HTTP method, and a coarse user-agent class as
// tags.
package middleware
