package profiles

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/profile-composer/internal/platform/auth"
	"github.com/janisto/profile-composer/internal/platform/timeutil"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/render"
	"github.com/janisto/profile-composer/internal/profile/resolver"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

// TemplateLookup fetches a single hydrated template definition by slug.
type TemplateLookup interface {
	Template(ctx context.Context, slug string) (*profile.Template, error)
}

// Register registers the profile view and template endpoints.
func Register(api huma.API, loader render.Loader, templates TemplateLookup, dispatcher *render.Dispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile-view",
		Method:      http.MethodGet,
		Path:        "/profiles/{username}",
		Summary:     "Get a composed profile",
		Description: "Returns the normalized profile of username together with its applied template " +
			"and the layout its page renders with. Only visible social links are returned.",
		Tags: []string{"Profiles"},
	}, func(ctx context.Context, input *ProfileViewInput) (*ProfileViewOutput, error) {
		res := loader.Load(ctx, input.Username)
		if res.View == nil {
			return nil, mapLoadError(res.Err)
		}
		viewer := auth.ViewerFromContext(ctx)
		return &ProfileViewOutput{
			Body: toHTTPView(*res.View, dispatcher, viewer),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-template",
		Method:      http.MethodGet,
		Path:        "/templates/{slug}",
		Summary:     "Get a template definition",
		Description: "Returns the hydrated template definition identified by slug.",
		Tags:        []string{"Templates"},
	}, func(ctx context.Context, input *TemplateGetInput) (*TemplateGetOutput, error) {
		t, err := templates.Template(ctx, input.Slug)
		if err != nil {
			if errors.Is(err, resolver.ErrNotFound) {
				return nil, huma.Error404NotFound("template not found")
			}
			return nil, mapUpstreamError(err, "template not found")
		}
		return &TemplateGetOutput{
			Body: *toHTTPTemplate(t, dispatcher.LayoutName(t)),
		}, nil
	})
}

// mapLoadError maps a failed profile load. Every identity failure is a plain
// not found so that callers cannot probe upstream health through usernames.
func mapLoadError(err error) error {
	if errors.Is(err, upstream.ErrRateLimited) {
		return huma.Error503ServiceUnavailable("profile source is rate limited")
	}
	return huma.Error404NotFound("profile not found")
}

func mapUpstreamError(err error, notFound string) error {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return huma.Error404NotFound(notFound)
	case errors.Is(err, upstream.ErrRateLimited):
		return huma.Error503ServiceUnavailable("profile source is rate limited")
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("profile source timed out")
	default:
		return huma.Error502BadGateway("profile source unavailable")
	}
}

func toHTTPView(v profile.View, dispatcher *render.Dispatcher, viewer auth.Viewer) ProfileView {
	p := v.Profile
	layout := dispatcher.LayoutName(v.Template)
	return ProfileView{
		ID:          p.Identity.ID,
		Username:    p.Identity.Username,
		DisplayName: p.Identity.DisplayName,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		Location:    p.Location,
		Website:     p.Website,
		Phone:       p.Phone,
		SocialLinks: toHTTPLinks(p.VisibleLinks()),
		Layout:      layout,
		Template:    toHTTPTemplate(v.Template, layout),
		ShareURL:    dispatcher.ShareURL(p.Identity.Username),
		Owner:       viewer.Owns(p.Identity),
		ComposedAt:  timeutil.Now(),
	}
}
