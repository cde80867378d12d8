package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-cmp/cmp"

	"github.com/janisto/profile-composer/internal/platform/auth"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	appmiddleware "github.com/janisto/profile-composer/internal/platform/middleware"
	"github.com/janisto/profile-composer/internal/platform/respond"
	"github.com/janisto/profile-composer/internal/profile/composer"
	"github.com/janisto/profile-composer/internal/profile/normalize"
	"github.com/janisto/profile-composer/internal/profile/render"
	"github.com/janisto/profile-composer/internal/profile/resolver"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

var testBase = normalize.MustAssetBase("https://cdn.example.com/assets")

func newTestRouter(src *upstream.MockSource, verifier auth.Verifier) chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
		auth.ViewerMiddleware(verifier),
	)
	api := humachi.New(router, huma.DefaultConfig("ProfilesTest", "test"))
	templates := resolver.New(src, testBase)
	loader := composer.NewLoader(src, templates, testBase)
	Register(api, loader, templates, render.NewDispatcher(nil, "https://profiles.example.com"))
	return router
}

func get(router http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGetProfileView(t *testing.T) {
	router := newTestRouter(upstream.NewMockSource(), nil)

	resp := get(router, "/profiles/jane", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got ProfileView
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Username != "jane" || got.DisplayName != "Jane Doe" {
		t.Errorf("unexpected identity %s / %s", got.Username, got.DisplayName)
	}
	if got.Layout != "classic" {
		t.Errorf("expected layout classic, got %s", got.Layout)
	}
	if got.Template == nil || got.Template.Slug != "ocean" || got.Template.Layout != "classic" {
		t.Fatalf("unexpected template %+v", got.Template)
	}
	if got.ShareURL != "https://profiles.example.com/u/jane" {
		t.Errorf("unexpected share url %s", got.ShareURL)
	}
	if got.Owner {
		t.Error("anonymous viewer must not own the profile")
	}

	var platforms []string
	for _, l := range got.SocialLinks {
		platforms = append(platforms, l.Platform)
	}
	if diff := cmp.Diff([]string{"github", "instagram"}, platforms); diff != "" {
		t.Errorf("visible links mismatch (-want +got):\n%s", diff)
	}
	if got.SocialLinks[0].Icon.Name != "GitHub" || got.SocialLinks[0].Href != "https://github.com/jane" {
		t.Errorf("unexpected link %+v", got.SocialLinks[0])
	}
}

func TestGetProfileViewWithoutTemplate(t *testing.T) {
	router := newTestRouter(upstream.NewMockSource(), nil)

	resp := get(router, "/profiles/alex", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got ProfileView
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Template != nil {
		t.Errorf("expected no template, got %+v", got.Template)
	}
	if got.Layout != render.NeutralLayout {
		t.Errorf("expected neutral layout, got %s", got.Layout)
	}
}

func TestGetProfileViewOwner(t *testing.T) {
	verifier := auth.StaticVerifier{"token": {UID: "u-1001", Email: "other@example.com"}}
	router := newTestRouter(upstream.NewMockSource(), verifier)

	resp := get(router, "/profiles/jane", http.Header{"Authorization": {"Bearer token"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got ProfileView
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !got.Owner {
		t.Error("expected the viewer to own the profile")
	}
}

func TestGetProfileViewUnverifiedEmailIsNotOwner(t *testing.T) {
	verifier := auth.StaticVerifier{"token": {UID: "u-9999", Email: "jane@example.com"}}
	router := newTestRouter(upstream.NewMockSource(), verifier)

	resp := get(router, "/profiles/jane", http.Header{"Authorization": {"Bearer token"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got ProfileView
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Owner {
		t.Error("an unverified email must not make the viewer the owner")
	}
}

func TestGetProfileViewErrors(t *testing.T) {
	tests := []struct {
		name     string
		username string
		fail     error
		status   int
	}{
		{"unknown user", "nobody", nil, http.StatusNotFound},
		{"upstream failure", "jane", upstream.ErrUpstream, http.StatusNotFound},
		{"rate limited", "jane", upstream.ErrRateLimited, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := upstream.NewMockSource()
			if tt.fail != nil {
				src.Fail(tt.username, tt.fail)
			}
			resp := get(newTestRouter(src, nil), "/profiles/"+tt.username, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
				t.Errorf("expected problem+json, got %s", ct)
			}
		})
	}
}

func TestGetProfileViewCBOR(t *testing.T) {
	router := newTestRouter(upstream.NewMockSource(), nil)

	resp := get(router, "/profiles/mia", http.Header{"Accept": {"application/cbor"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %s", ct)
	}
	var got ProfileView
	if err := cbor.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode CBOR: %v", err)
	}
	if got.Username != "mia" || got.Layout != "spotlight" {
		t.Errorf("unexpected view %s / %s", got.Username, got.Layout)
	}
}

func TestGetTemplate(t *testing.T) {
	tests := []struct {
		slug   string
		layout string
	}{
		{"ocean", "classic"},
		{"mono", "minimal"},
		{"paper", render.NeutralLayout},
	}
	router := newTestRouter(upstream.NewMockSource(), nil)
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			resp := get(router, "/templates/"+tt.slug, nil)
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
			var got Template
			if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if got.Slug != tt.slug || got.Layout != tt.layout {
				t.Errorf("expected %s/%s, got %s/%s", tt.slug, tt.layout, got.Slug, got.Layout)
			}
		})
	}
}

func TestGetTemplateErrors(t *testing.T) {
	tests := []struct {
		name   string
		fail   error
		slug   string
		status int
	}{
		{"missing", nil, "missing", http.StatusNotFound},
		{"upstream failure", errors.New("boom"), "ocean", http.StatusBadGateway},
		{"rate limited", upstream.ErrRateLimited, "ocean", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := upstream.NewMockSource()
			if tt.fail != nil {
				src.Fail(tt.slug, tt.fail)
			}
			resp := get(newTestRouter(src, nil), "/templates/"+tt.slug, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
		})
	}
}
