package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVaryMiddlewareSetsHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Custom", "value")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test body"))
	})

	req := httptest.NewRequest(http.MethodGet, "/u/jane/card", nil)
	resp := httptest.NewRecorder()
	Vary()(handler).ServeHTTP(resp, req)

	if diff := cmp.Diff([]string{"Accept", "HX-Request"}, resp.Header().Values("Vary")); diff != "" {
		t.Errorf("Vary mismatch (-want +got):\n%s", diff)
	}
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if resp.Header().Get("X-Custom") != "value" || resp.Body.String() != "test body" {
		t.Fatal("expected downstream response to be preserved")
	}
}
