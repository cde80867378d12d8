package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns a middleware for the read-only profile API and the htmx card
// fragments. Only safe methods are allowed.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
			"traceparent",
			"HX-Request",
			"HX-Current-URL",
			"HX-Target",
			"HX-Trigger",
		},
		ExposedHeaders: []string{"Link", "Location", "X-Request-Id"},
		MaxAge:         300,
	})
}
