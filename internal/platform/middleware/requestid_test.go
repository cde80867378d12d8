package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(incoming string) (captured string, header string) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	h.ServeHTTP(rec, req)
	return captured, rec.Header().Get(chimiddleware.RequestIDHeader)
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, header := serveRequestID("")
	if captured == "" || header != captured {
		t.Fatalf("expected matching generated id, got context %q header %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDIncomingHeader(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"alphanumeric kept", "abc123-XYZ", true},
		{"uuid kept", "550e8400-e29b-41d4-a716-446655440000", true},
		{"max length kept", strings.Repeat("a", maxRequestIDLength), true},
		{"too long replaced", strings.Repeat("a", maxRequestIDLength+1), false},
		{"newline replaced", "abc\ninjected", false},
		{"high byte replaced", "abc\x80", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured, header := serveRequestID(tt.incoming)
			if got := captured == tt.incoming; got != tt.keep {
				t.Fatalf("kept = %v, want %v (got %q)", got, tt.keep, captured)
			}
			if header != captured {
				t.Errorf("expected header %q, got %q", captured, header)
			}
		})
	}
}
