package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger stores a request-scoped logger in the context. Entries carry
// the request ID and, when a traceparent header is present, the Cloud Trace
// correlation fields.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var fields []zap.Field
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, zap.String("requestId", id))
			}
			if tc, ok := parseTraceparent(r.Header.Get(traceparentHeader)); ok {
				fields = append(fields, tc.fields(projectID())...)
			}
			ctx := ContextWithLogger(r.Context(), LoggerFromContext(r.Context()).With(fields...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one summary per request. Server errors are logged at
// error severity. The route field holds the matched chi pattern so that
// profile pages aggregate under /u/{username}.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					fields = append(fields, zap.String("route", pattern))
				}
			}
			if r.Header.Get("HX-Request") == "true" {
				fields = append(fields, zap.Bool("htmx", true))
			}

			logger := LoggerFromContext(r.Context())
			if status >= http.StatusInternalServerError {
				logger.Error("request completed", fields...)
				return
			}
			logger.Info("request completed", fields...)
		})
	}
}
