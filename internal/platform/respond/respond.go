// Package respond writes RFC 9457 problem responses for requests that never
// reach a huma operation: unknown routes, disallowed methods and panics.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/danielgtaylor/huma/v2/negotiation"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/profile-composer/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"
	schemaPath             = "/schemas/ErrorModel.json"
)

// problem mirrors huma.ErrorModel with the $schema field huma adds.
type problem struct {
	Schema string `json:"$schema,omitempty"`
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NotFoundHandler emits a problem+json (or CBOR) 404 response.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "no route for "+r.URL.Path)
	}
}

// MethodNotAllowedHandler emits a 405 problem response with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
	}
}

// Recoverer converts panics into 500 problem responses. http.ErrAbortHandler
// is re-panicked so the server aborts the connection. Nothing is written when
// the handler already started the response.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				applog.LogError(r.Context(), "panic recovered", err, zap.ByteString("stack", debug.Stack()))
				if !rw.wroteHeader {
					writeProblem(rw, r, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	schema := schemaURL(r)
	body := problem{
		Schema: schema,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	h := w.Header()
	ensureVary(h, "Origin", "Accept")
	h.Set("Link", "<"+schema+`>; rel="describedBy"`)

	var (
		payload []byte
		err     error
	)
	if selectFormat(r.Header.Get("Accept")) == "cbor" {
		h.Set("Content-Type", contentTypeProblemCBOR)
		payload, err = cbor.Marshal(body)
	} else {
		h.Set("Content-Type", contentTypeProblemJSON)
		payload, err = marshalJSON(body)
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	fields := []zap.Field{zap.Int("status", status), zap.String("path", r.URL.Path)}
	if status >= http.StatusInternalServerError {
		applog.LogError(r.Context(), detail, nil, fields...)
	} else {
		applog.LogWarn(r.Context(), detail, fields...)
	}

	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func marshalJSON(v any) ([]byte, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}

func schemaURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + schemaPath
}

// ensureVary adds each value to the Vary header unless already listed.
func ensureVary(h http.Header, values ...string) {
	seen := map[string]struct{}{}
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				seen[strings.ToLower(p)] = struct{}{}
			}
		}
	}
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		h.Add("Vary", v)
	}
}

// negotiable lists the problem encodings in preference order; JSON wins ties.
var negotiable = []string{
	"application/json",
	"application/problem+json",
	"application/cbor",
	"application/problem+cbor",
}

// selectFormat picks "cbor" when huma's q-value selection prefers a CBOR
// type. negotiation matches types exactly, so wildcards, unknown types and an
// empty header fall back to "json".
func selectFormat(accept string) string {
	if strings.HasSuffix(negotiation.SelectQValue(accept, negotiable), "cbor") {
		return "cbor"
	}
	return "json"
}

// allowedMethods inspects chi's routing context to discover allowed methods.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
