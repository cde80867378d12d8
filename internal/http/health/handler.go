package health

import (
	"encoding/json"
	"net/http"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
}

// Handler returns the health check handler. source names the configured
// profile source and is reported as-is.
func Handler(source string) http.HandlerFunc {
	body := Response{Status: "healthy", Source: source}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(body)
	}
}
