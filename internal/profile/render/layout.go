// Package render turns a composed profile view into HTML.
//
// Layouts are looked up in a Registry by the template's component reference.
// A missing or unknown reference is a normal case and selects the neutral
// layout. The Dispatcher maps a view to a three-state Outcome and Session
// drives the Loading -> Ready | NotFound state machine for one page view.
package render

import (
	"strings"
	"sync"

	g "maragu.dev/gomponents"

	"github.com/janisto/profile-composer/internal/platform/auth"
	"github.com/janisto/profile-composer/internal/profile"
)

// NeutralLayout is the name of the fallback layout.
const NeutralLayout = "neutral"

// Props is everything a layout receives.
type Props struct {
	View     profile.View
	Viewer   auth.Viewer
	ShareURL string
}

// Layout renders a profile view.
type Layout interface {
	Name() string
	Render(p Props) g.Node
}

type layoutFunc struct {
	name string
	fn   func(Props) g.Node
}

func (l layoutFunc) Name() string { return l.name }
func (l layoutFunc) Render(p Props) g.Node { return l.fn(p) }

// NewLayout adapts fn into a Layout called name.
func NewLayout(name string, fn func(Props) g.Node) Layout {
	return layoutFunc{name: name, fn: fn}
}

// Registry maps component references to layouts. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	layouts  map[string]Layout
	fallback Layout
}

// NewRegistry creates an empty registry that selects fallback for unknown refs.
func NewRegistry(fallback Layout) *Registry {
	return &Registry{layouts: map[string]Layout{}, fallback: fallback}
}

// DefaultRegistry returns a registry with the built-in classic, minimal and
// spotlight layouts and the neutral fallback.
func DefaultRegistry() *Registry {
	r := NewRegistry(NewLayout(NeutralLayout, neutral))
	r.Register("classic", NewLayout("classic", classic))
	r.Register("minimal", NewLayout("minimal", minimal))
	r.Register("spotlight", NewLayout("spotlight", spotlight))
	return r
}

// Register binds ref (case-insensitive) to l, replacing any previous binding.
func (r *Registry) Register(ref string, l Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[refKey(ref)] = l
}

// Lookup returns the layout registered for ref.
func (r *Registry) Lookup(ref string) (Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layouts[refKey(ref)]
	return l, ok
}

// Select returns the layout for t, falling back when t is nil, names no
// component or names one that is not registered.
func (r *Registry) Select(t *profile.Template) Layout {
	if t == nil || strings.TrimSpace(t.ComponentRef) == "" {
		return r.fallback
	}
	if l, ok := r.Lookup(t.ComponentRef); ok {
		return l
	}
	return r.fallback
}

// Fallback returns the layout used when no component matches.
func (r *Registry) Fallback() Layout {
	return r.fallback
}

func refKey(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}
