package middleware

import "net/http"

// statusRecorder wraps http.ResponseWriter to capture the status code and
// the number of body bytes written. The header is committed once; later
// WriteHeader calls are ignored, matching net/http semantics.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int64
	written    bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.written {
		rec.statusCode = code
		rec.written = true
		rec.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done and counts the
// bytes written.
func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}
