// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Profile sources.
const (
	SourceHTTP      = "http"
	SourceFirestore = "firestore"
	SourceMock      = "mock"
)

// Config is the validated process configuration.
type Config struct {
	Port                         string `validate:"required,numeric"`
	ProfileSource                string `validate:"oneof=http firestore mock"`
	UpstreamBaseURL              string `validate:"required_if=ProfileSource http,omitempty,url"`
	UpstreamToken                string
	UpstreamTimeout              time.Duration `validate:"gt=0"`
	UpstreamRPS                  float64       `validate:"gte=0"`
	UpstreamBurst                int           `validate:"min=1"`
	AssetBaseURL                 string        `validate:"omitempty,url"`
	PublicBaseURL                string        `validate:"omitempty,url"`
	FirebaseProjectID            string        `validate:"required_if=ProfileSource firestore,required_if=AuthEnabled true"`
	GoogleApplicationCredentials string
	AuthEnabled                  bool
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds and validates a Config from lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	timeout, err := time.ParseDuration(get("UPSTREAM_TIMEOUT", "5s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err))
	}
	rps, err := strconv.ParseFloat(get("UPSTREAM_RPS", "10"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_RPS: %w", err))
	}
	burst, err := strconv.Atoi(get("UPSTREAM_BURST", "20"))
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_BURST: %w", err))
	}
	authEnabled, err := strconv.ParseBool(get("AUTH_ENABLED", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("AUTH_ENABLED: %w", err))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	cfg := Config{
		Port:                         get("PORT", "8080"),
		ProfileSource:                strings.ToLower(get("PROFILE_SOURCE", SourceHTTP)),
		UpstreamBaseURL:              get("UPSTREAM_BASE_URL", ""),
		UpstreamToken:                get("UPSTREAM_TOKEN", ""),
		UpstreamTimeout:              timeout,
		UpstreamRPS:                  rps,
		UpstreamBurst:                burst,
		AssetBaseURL:                 get("ASSET_BASE_URL", ""),
		PublicBaseURL:                get("PUBLIC_BASE_URL", ""),
		FirebaseProjectID:            get("FIREBASE_PROJECT_ID", ""),
		GoogleApplicationCredentials: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		AuthEnabled:                  authEnabled,
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NeedsFirebase reports whether any Firebase client must be initialized.
func (c Config) NeedsFirebase() bool {
	return c.AuthEnabled || c.ProfileSource == SourceFirestore
}
