package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery recovers from panics in HTTP handlers and returns a 500
// Internal Server Error. It logs the panic with a stack trace but does not
// expose internal details to clients.
//
// Recovery must sit outside Instrument in the middleware chain: the
// instrumentation observes a panic, emits its metrics, and re-raises, so
// this is where the panic finally lands.
//
// Example usage:
//
//	handler = middleware.Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":      "An internal error occurred. Please try again later.",
					"request_id": requestID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
