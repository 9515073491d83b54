package middleware

import (
	"net/http"
	"time"

	"github.com/apex/log"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs method, path, status, remote address, request ID
// and latency for each HTTP request.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(log.Fields{
				"component": "http",
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    rec.status,
				"remote":    r.RemoteAddr,
				"requestId": RequestIDFrom(r.Context()),
				"duration":  time.Since(start),
			}).Info("request")
		})
	}
}
