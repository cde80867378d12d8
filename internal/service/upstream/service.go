// Package upstream fetches the raw records the composition engine works on:
// the user, the templates the user has applied, and template definitions.
package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/janisto/profile-composer/internal/profile"
)

// Source errors
var (
	ErrNotFound    = errors.New("upstream resource not found")
	ErrRateLimited = errors.New("upstream rate limit exceeded")
	ErrMalformed   = errors.New("upstream returned a malformed payload")
	ErrUpstream    = errors.New("upstream error")
)

// UpstreamErrorKind classifies upstream failures.
type UpstreamErrorKind string

const (
	UpstreamErrorKindNotFound    UpstreamErrorKind = "not_found"
	UpstreamErrorKindRateLimited UpstreamErrorKind = "rate_limited"
	UpstreamErrorKindMalformed   UpstreamErrorKind = "malformed"
	UpstreamErrorKindUpstream    UpstreamErrorKind = "upstream"
)

// UpstreamError includes response metadata for error mapping and logging.
type UpstreamError struct {
	Kind       UpstreamErrorKind
	Status     int
	RetryAfter string
	cause      error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.cause == nil {
		return fmt.Sprintf("upstream error (kind=%s status=%d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream error (kind=%s status=%d): %v", e.Kind, e.Status, e.cause)
}

// Unwrap enables errors.Is/As against sentinel source errors.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Source defines the upstream reads needed to compose a profile view.
//
// Implementations must return records the caller owns: two calls never
// share mutable state. ListUsedTemplates returns references in the order the
// source ranks them, most recent first.
type Source interface {
	FetchUser(ctx context.Context, username string) (profile.Record, error)
	ListUsedTemplates(ctx context.Context, username string) ([]profile.TemplateRef, error)
	FetchTemplate(ctx context.Context, slug string) (profile.Record, error)
}
