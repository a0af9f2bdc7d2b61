package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/utils"
)

// withTraceID attaches a request-scoped logger carrying a short trace
// identifier to the request context. Downstream code retrieves it via
// logger.FromContext / logger.FromRequest.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := h.logger.With().
			Str("trace_id", utils.ShortID()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

// logRequests logs one line per completed request with status and duration.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.FromRequest(r).Info().
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
