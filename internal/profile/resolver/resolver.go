// Package resolver determines which template, if any, applies to a user and
// hydrates its definition.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
)

// ErrNotFound is returned by Template when no usable definition exists.
var ErrNotFound = errors.New("template not found")

// TemplateSource is the part of the upstream source the resolver reads.
type TemplateSource interface {
	ListUsedTemplates(ctx context.Context, username string) ([]profile.TemplateRef, error)
	FetchTemplate(ctx context.Context, slug string) (profile.Record, error)
}

// Resolver resolves templates against a TemplateSource.
type Resolver struct {
	source TemplateSource
	base   normalize.AssetBase
}

// New creates a Resolver. base rewrites relative thumbnail and preview paths.
func New(source TemplateSource, base normalize.AssetBase) *Resolver {
	return &Resolver{source: source, base: base}
}

// Resolve returns the template applied by username, or nil when the user has
// none or it cannot be obtained. The first reference in source order wins;
// references are not re-sorted. Failures are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, username string) *profile.Template {
	refs, err := r.source.ListUsedTemplates(ctx, username)
	if err != nil {
		logFailure(ctx, "listing used templates failed", err, zap.String("username", username))
		return nil
	}

	ref, ok := first(refs)
	if !ok {
		return nil
	}

	t, err := r.load(ctx, ref.Slug)
	if err != nil {
		logFailure(ctx, "resolving template failed", err,
			zap.String("username", username), zap.String("slug", ref.Slug))
		return nil
	}
	t.Status = ref.Status
	return t
}

// Template fetches and hydrates the definition for slug directly.
func (r *Resolver) Template(ctx context.Context, slug string) (*profile.Template, error) {
	t, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	t.Status = profile.RefStatusOther
	return t, nil
}

func (r *Resolver) load(ctx context.Context, slug string) (*profile.Template, error) {
	raw, err := r.source.FetchTemplate(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching template %q: %w", slug, err)
	}
	t, issues := normalize.Template(raw)
	if t == nil {
		return nil, fmt.Errorf("template %q: %w", slug, ErrNotFound)
	}
	if len(issues) > 0 {
		applog.LogWarn(ctx, "template normalized with issues",
			zap.String("slug", slug), zap.Any("issues", issues))
	}
	if t.Slug == "" {
		t.Slug = slug
	}
	t.Visual.ThumbnailURL = r.base.Absolute(t.Visual.ThumbnailURL)
	t.Visual.PreviewURL = r.base.Absolute(t.Visual.PreviewURL)
	return t, nil
}

func first(refs []profile.TemplateRef) (profile.TemplateRef, bool) {
	for _, ref := range refs {
		if ref.Slug != "" {
			return ref, true
		}
	}
	return profile.TemplateRef{}, false
}

// logFailure skips cancellations, which only happen when the caller no
// longer wants the result.
func logFailure(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if errors.Is(err, context.Canceled) {
		return
	}
	applog.LogWarn(ctx, msg, append(fields, zap.Error(err))...)
}
