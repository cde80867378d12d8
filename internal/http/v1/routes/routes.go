package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/profile-composer/internal/http/health"
	"github.com/janisto/profile-composer/internal/http/pages"
	"github.com/janisto/profile-composer/internal/http/v1/profiles"
	"github.com/janisto/profile-composer/internal/profile/render"
)

// APIPrefix is the path prefix of every API operation.
const APIPrefix = "/v1"

// Deps are the services the HTTP routes are built from.
type Deps struct {
	Loader     render.Loader
	Templates  profiles.TemplateLookup
	Dispatcher *render.Dispatcher
	// Source names the configured profile source for the health report.
	Source string
}

// Register wires the API operations into api under APIPrefix.
func Register(api huma.API, deps Deps) {
	v1 := huma.NewGroup(api, APIPrefix)
	profiles.Register(v1, deps.Loader, deps.Templates, deps.Dispatcher)
}

// Mount wires the plain HTTP routes: the health check and the profile pages.
func Mount(router chi.Router, deps Deps) {
	router.Get("/health", health.Handler(deps.Source))
	pages.New(deps.Loader, deps.Dispatcher).Routes(router)
}
