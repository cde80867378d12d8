package render

import (
	"context"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/janisto/profile-composer/internal/platform/auth"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/composer"
)

// State is the render state of a page view.
type State int

const (
	StateLoading State = iota
	StateReady
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the result of dispatching a view. Node is nil unless State is
// StateReady.
type Outcome struct {
	State  State
	Layout string
	Title  string
	Node   g.Node
}

// Dispatcher selects a layout for a view and renders it.
type Dispatcher struct {
	registry  *Registry
	publicURL string
}

// NewDispatcher creates a Dispatcher. publicURL is the externally visible base
// of share links; when empty no share link is rendered.
func NewDispatcher(registry *Registry, publicURL string) *Dispatcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Dispatcher{registry: registry, publicURL: strings.TrimRight(publicURL, "/")}
}

// ShareURL returns the public page URL of username.
func (d *Dispatcher) ShareURL(username string) string {
	if d.publicURL == "" || username == "" {
		return ""
	}
	return d.publicURL + ProfilePath(username)
}

// Render dispatches view. A nil view is the only NotFound condition; a view
// without a template renders the fallback layout.
func (d *Dispatcher) Render(view *profile.View, viewer auth.Viewer) Outcome {
	if view == nil {
		return Outcome{State: StateNotFound}
	}
	layout := d.registry.Select(view.Template)
	props := Props{
		View:     *view,
		Viewer:   viewer,
		ShareURL: d.ShareURL(view.Profile.Identity.Username),
	}
	return Outcome{
		State:  StateReady,
		Layout: layout.Name(),
		Title:  view.Profile.Identity.DisplayName,
		Node:   layout.Render(props),
	}
}

// ProfilePath returns the page path of username.
func ProfilePath(username string) string {
	return "/u/" + url.PathEscape(username)
}

// Visit loads and dispatches username in one call. It is the synchronous
// form of a Session for request handlers.
func Visit(ctx context.Context, loader Loader, d *Dispatcher, username string, viewer auth.Viewer) Outcome {
	res := loader.Load(ctx, username)
	out := d.Render(res.View, viewer)
	logOutcome(ctx, username, out, res)
	return out
}

func logOutcome(ctx context.Context, username string, out Outcome, res composer.Result) {
	details := map[string]any{}
	if res.View != nil && res.View.Template != nil {
		details["template"] = res.View.Template.Slug
	}
	if res.Err != nil {
		details["reason"] = res.Err.Error()
	}
	if len(res.Issues) > 0 {
		details["issues"] = len(res.Issues)
	}
	applog.LogRenderEvent(ctx, username, out.State.String(), out.Layout, details)
}

// LayoutName returns the name of the layout t would render with.
func (d *Dispatcher) LayoutName(t *profile.Template) string {
	return d.registry.Select(t).Name()
}
