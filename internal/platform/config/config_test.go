package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"UPSTREAM_BASE_URL": "https://api.example.com"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ProfileSource != SourceHTTP {
		t.Errorf("expected http source, got %s", cfg.ProfileSource)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.UpstreamRPS != 10 || cfg.UpstreamBurst != 20 {
		t.Errorf("unexpected limiter settings %v/%d", cfg.UpstreamRPS, cfg.UpstreamBurst)
	}
	if cfg.NeedsFirebase() {
		t.Error("http source without auth needs no Firebase")
	}
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                "9090",
		"PROFILE_SOURCE":      "Firestore",
		"FIREBASE_PROJECT_ID": "demo-test-project",
		"UPSTREAM_TIMEOUT":    "750ms",
		"PUBLIC_BASE_URL":     "https://profiles.example.com",
		"ASSET_BASE_URL":      "https://cdn.example.com/assets",
		"AUTH_ENABLED":        "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProfileSource != SourceFirestore {
		t.Errorf("expected firestore source, got %s", cfg.ProfileSource)
	}
	if cfg.UpstreamTimeout != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %s", cfg.UpstreamTimeout)
	}
	if !cfg.AuthEnabled || !cfg.NeedsFirebase() {
		t.Error("expected auth enabled and Firebase needed")
	}
}

func TestFromLookupValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"http source needs base url", map[string]string{}, "UpstreamBaseURL"},
		{"unknown source", map[string]string{"PROFILE_SOURCE": "ftp"}, "ProfileSource"},
		{"bad public url", map[string]string{"PROFILE_SOURCE": "mock", "PUBLIC_BASE_URL": "not a url"}, "PublicBaseURL"},
		{"firestore needs project", map[string]string{"PROFILE_SOURCE": "firestore"}, "FirebaseProjectID"},
		{"auth needs project", map[string]string{"PROFILE_SOURCE": "mock", "AUTH_ENABLED": "1"}, "FirebaseProjectID"},
		{"non numeric port", map[string]string{"PROFILE_SOURCE": "mock", "PORT": "http"}, "Port"},
		{"zero burst", map[string]string{"PROFILE_SOURCE": "mock", "UPSTREAM_BURST": "0"}, "UpstreamBurst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			found := false
			for _, fe := range verrs {
				if fe.Field() == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error on %s, got %v", tt.field, verrs)
			}
		})
	}
}

func TestFromLookupParseErrors(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"UPSTREAM_TIMEOUT": "soon",
		"UPSTREAM_RPS":     "fast",
		"AUTH_ENABLED":     "maybe",
	}))
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, key := range []string{"UPSTREAM_TIMEOUT", "UPSTREAM_RPS", "AUTH_ENABLED"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to mention %s, got %v", key, err)
		}
	}
}

func TestFromLookupIgnoresBlankValues(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"PROFILE_SOURCE": "mock", "PORT": "  "}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port for blank value, got %q", cfg.Port)
	}
}
