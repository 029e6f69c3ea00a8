package middleware

import "net/http"

// DefaultMaxBodySize caps event payloads at 1MB. Stacktraces and breadcrumb
// trails are text; anything larger is not a crash report.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize limits the size of incoming request bodies via
// http.MaxBytesReader; oversized bodies fail the JSON decode downstream.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// IngestRequestSize applies the default 1MB cap.
func IngestRequestSize() func(http.Handler) http.Handler {
	return RequestSize(DefaultMaxBodySize)
}
