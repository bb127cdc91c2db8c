package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// withLogging emits one structured line per request once the downstream
// handler returns, carrying the trace-scoped logger attached by withTraceID.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		logger.FromRequest(r).Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", rec.status).
			Int("size", rec.size).
			Dur("duration", time.Since(start)).
			Send()
	})
}
