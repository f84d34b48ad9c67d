package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agustinnadalich/conexus-play-sub000/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error responses per
// endpoint. Errors written through writeError are labelled with their code.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if rec.status >= http.StatusBadRequest {
			code := rec.errorCode
			if code == "" {
				code = statusClass(rec.status)
			}
			metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		}
	}
}

// statusClass labels error responses written without an API error code.
func statusClass(status int) string {
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}

// statusRecorder captures the status and, for API errors, the error code.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	errorCode string
	wrote     bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wrote {
		rw.status = code
		rw.wrote = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wrote = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func recordErrorCode(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.errorCode = code
	}
}
