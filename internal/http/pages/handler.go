// Package pages serves the server-rendered profile pages.
package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/profile-composer/internal/platform/auth"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile/render"
)

// Handler renders profile pages and card fragments.
type Handler struct {
	loader     render.Loader
	dispatcher *render.Dispatcher
}

// New creates a page Handler.
func New(loader render.Loader, dispatcher *render.Dispatcher) *Handler {
	return &Handler{loader: loader, dispatcher: dispatcher}
}

// Routes mounts the page routes on r:
//
//	GET /u/{username}        full page, rendered on the server
//	GET /u/{username}/shell  loading shell that fetches the card
//	GET /u/{username}/card   card fragment
func (h *Handler) Routes(r chi.Router) {
	r.Route("/u/{username}", func(r chi.Router) {
		r.Get("/", h.page)
		r.Get("/shell", h.shell)
		r.Get("/card", h.card)
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	out := h.visit(r, username)
	if out.State != render.StateReady {
		h.write(w, r, http.StatusNotFound, render.NotFoundPage(username))
		return
	}
	h.write(w, r, http.StatusOK, render.ProfilePage(out))
}

func (h *Handler) shell(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.write(w, r, http.StatusOK, render.ShellPage(username, render.ProfilePath(username)+"/card"))
}

// card answers htmx swaps with 200 even when the profile is missing, since
// htmx does not swap error responses.
func (h *Handler) card(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	out := h.visit(r, username)
	if out.State != render.StateReady {
		status := http.StatusNotFound
		if r.Header.Get("HX-Request") == "true" {
			status = http.StatusOK
		}
		h.write(w, r, status, render.NotFoundCard(username))
		return
	}
	h.write(w, r, http.StatusOK, out.Node)
}

func (h *Handler) visit(r *http.Request, username string) render.Outcome {
	viewer := auth.ViewerFromContext(r.Context())
	return render.Visit(r.Context(), h.loader, h.dispatcher, username, viewer)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, component any) {
	err := render.WritePage(w, r, status, component)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	applog.LogError(r.Context(), "page render failed", err, zap.String("path", r.URL.Path))
	// WritePage sets the content type only once rendering succeeded.
	if w.Header().Get("Content-Type") == "" {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
