package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
)

// SessionCookie carries the ID token on page navigations, where browsers do
// not send an Authorization header.
const SessionCookie = "__session"

// Viewer is the person looking at a profile page. The zero value is an
// anonymous viewer.
type Viewer struct {
	UID           string
	Email         string
	EmailVerified bool
	Authenticated bool
}

// Anonymous returns the viewer used when no valid credentials are present.
func Anonymous() Viewer {
	return Viewer{}
}

// ViewerFor builds an authenticated viewer from verified claims.
func ViewerFor(c *Claims) Viewer {
	if c == nil || c.UID == "" {
		return Anonymous()
	}
	return Viewer{UID: c.UID, Email: c.Email, EmailVerified: c.EmailVerified, Authenticated: true}
}

// Owns reports whether the viewer is the owner of the profile identified by
// id. Ownership is matched on the user ID, then on a case-insensitive email
// the identity provider has verified.
func (v Viewer) Owns(id profile.Identity) bool {
	if !v.Authenticated {
		return false
	}
	if v.UID != "" && v.UID == id.ID {
		return true
	}
	return v.EmailVerified && v.Email != "" && strings.EqualFold(v.Email, id.Email)
}

// ResolveViewer verifies token and returns the matching viewer. A missing or
// rejected token yields an anonymous viewer; profile pages never fail on
// credentials.
func ResolveViewer(ctx context.Context, verifier Verifier, token string) Viewer {
	if verifier == nil || token == "" {
		return Anonymous()
	}
	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		applog.LogWarn(ctx, "viewer token rejected", zap.String("reason", string(ReasonOf(err))))
		return Anonymous()
	}
	return ViewerFor(claims)
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

type viewerContextKey struct{}

// ViewerMiddleware resolves the viewer once per request and stores it in the
// request context. A nil verifier makes every request anonymous.
func ViewerMiddleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := ResolveViewer(r.Context(), verifier, TokenFromRequest(r))
			ctx := context.WithValue(r.Context(), viewerContextKey{}, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ViewerFromContext returns the viewer stored by ViewerMiddleware, or an
// anonymous viewer.
func ViewerFromContext(ctx context.Context) Viewer {
	if ctx == nil {
		return Anonymous()
	}
	v, _ := ctx.Value(viewerContextKey{}).(Viewer)
	return v
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != "" && !strings.ContainsAny(token, " \t")
}
