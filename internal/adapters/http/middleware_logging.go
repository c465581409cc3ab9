package http

import (
	"net/http"
	"time"

	"github.com/3-lines-studio/vitebridge/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// WithLogging logs one line per request and stores log in the request context.
func WithLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(log.WithContext(r.Context())))

			log.Info().
				Str("uri", r.RequestURI).
				Str("method", r.Method).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Int("size", ww.BytesWritten()).
				Send()
		})
	}
}
