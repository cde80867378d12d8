package composer

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

// ErrNoIdentity is reported when the user record carries neither an id nor
// a username.
var ErrNoIdentity = errors.New("user record has no identity")

// UserSource fetches raw user records.
type UserSource interface {
	FetchUser(ctx context.Context, username string) (profile.Record, error)
}

// TemplateResolver resolves the template applied by a user; nil means none.
type TemplateResolver interface {
	Resolve(ctx context.Context, username string) *profile.Template
}

// Result is the settled outcome of one composition run. View is nil exactly
// when Err is set: the user could not be fetched or has no identity.
type Result struct {
	Username string
	View     *profile.View
	Issues   normalize.Issues
	Err      error
}

// Loader runs the upstream fetches for a username and composes the result.
type Loader struct {
	users     UserSource
	templates TemplateResolver
	base      normalize.AssetBase
}

// NewLoader creates a Loader.
func NewLoader(users UserSource, templates TemplateResolver, base normalize.AssetBase) *Loader {
	return &Loader{users: users, templates: templates, base: base}
}

// Load fetches the user and resolves the template concurrently and returns
// once both have settled. A failed user fetch cancels template resolution.
func (l *Loader) Load(ctx context.Context, username string) Result {
	var (
		raw  profile.Record
		tmpl *profile.Template
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := l.users.FetchUser(gctx, username)
		if err != nil {
			return err
		}
		raw = rec
		return nil
	})
	g.Go(func() error {
		tmpl = l.templates.Resolve(gctx, username)
		return nil
	})

	if err := g.Wait(); err != nil {
		logUserFailure(ctx, username, err)
		return Result{Username: username, Err: err}
	}

	view, issues := compose(raw, tmpl, l.base, username)
	if len(issues) > 0 {
		applog.LogWarn(ctx, "profile normalized with issues",
			zap.String("username", username), zap.Any("issues", issues))
	}
	if !view.Profile.Identity.Established() {
		applog.LogWarn(ctx, "user record has no identity", zap.String("username", username))
		return Result{Username: username, Issues: issues, Err: ErrNoIdentity}
	}
	return Result{Username: username, View: &view, Issues: issues}
}

func logUserFailure(ctx context.Context, username string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, upstream.ErrNotFound):
		applog.LogInfo(ctx, "user not found", zap.String("username", username))
	default:
		applog.LogWarn(ctx, "user fetch failed", zap.String("username", username), zap.Error(err))
	}
}
