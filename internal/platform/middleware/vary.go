package middleware

import "net/http"

// Vary returns middleware that adds Accept and HX-Request to the Vary header.
// Accept selects JSON or CBOR on the API; HX-Request distinguishes htmx
// fragment loads from full page loads.
//
// The CORS middleware separately adds "Origin" to Vary.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r)
		})
	}
}
