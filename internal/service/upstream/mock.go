package upstream

import (
	"context"
	"sync"

	"github.com/janisto/profile-composer/internal/profile"
)

// MockSource implements Source for tests and local development with
// pre-populated demo data. Failures can be injected per key.
type MockSource struct {
	mu        sync.RWMutex
	users     map[string]profile.Record
	refs      map[string][]profile.TemplateRef
	templates map[string]profile.Record
	failures  map[string]error
}

// NewMockSource creates a mock pre-populated with jane / alex / sam / mia demo data.
func NewMockSource() *MockSource {
	return &MockSource{
		users: map[string]profile.Record{
			"jane": {
				"id":           "u-1001",
				"username":     "jane",
				"display_name": "Jane Doe",
				"email":        "jane@example.com",
				"profileImage": "avatars/jane.png",
				"profile": map[string]any{
					"bio":      "Designer and weekend climber.",
					"location": "Helsinki",
					"website":  "https://jane.example.com",
					"socialLinks": []any{
						map[string]any{"platform": "GitHub", "url": "https://github.com/jane", "isVisible": true},
						map[string]any{"platform": "Instagram", "url": "https://instagram.com/jane"},
						map[string]any{"platform": "LinkedIn", "url": "https://linkedin.com/in/jane", "isVisible": false},
					},
				},
			},
			"alex": {
				"data": map[string]any{
					"_id":        "u-1002",
					"userName":   "alex",
					"avatar_url": "https://images.example.com/alex.jpg",
					"bio":        "No template yet.",
					"social_links": `[{"platform":"twitter","url":"https://x.com/alex"},` +
						`{"platform":"mastodon","url":"https://mastodon.social/@alex"}]`,
				},
			},
			"sam": {
				"user": map[string]any{
					"id":           "u-1003",
					"username":     "sam",
					"name":         "Sam Lee",
					"phone_number": "+358 40 123 4567",
					"socialLinks":  "not json",
				},
			},
			"mia": {
				"id":       "u-1004",
				"username": "mia",
				"about":    "Photographer.",
				"socialLinks": []any{
					map[string]any{"platform": "website", "url": "mia.example.com"},
					map[string]any{"platform": "email", "url": "mia@example.com"},
				},
			},
		},
		refs: map[string][]profile.TemplateRef{
			"jane": {
				{Slug: "ocean", Status: profile.RefStatusBought},
				{Slug: "mono", Status: profile.RefStatusSaved},
			},
			"sam": {{Slug: "paper", Status: profile.RefStatusSaved}},
			"mia": {{Slug: "sunrise", Status: profile.RefStatusOther}},
		},
		templates: map[string]profile.Record{
			"ocean": {
				"id":        "t-1",
				"slug":      "ocean",
				"name":      "Ocean",
				"component": "classic",
				"isPremium": true,
				"price":     9.99,
				"discount":  20.0,
				"visual": map[string]any{
					"primaryColor":    "#0b4f6c",
					"backgroundColor": "#f0f7fa",
					"textColor":       "#102a43",
					"fontFamily":      "Inter, sans-serif",
					"thumbnail":       "thumbs/ocean.png",
				},
			},
			"mono": {
				"data": map[string]any{
					"template_id":    "t-2",
					"slug":           "mono",
					"title":          "Mono",
					"component_name": "minimal",
					"is_premium":     false,
					"primary_color":  "#111111",
				},
			},
			"paper": {
				"id":           "t-3",
				"slug":         "paper",
				"name":         "Paper",
				"previewImage": "/previews/paper.png",
			},
			"sunrise": {
				"id":        "t-4",
				"slug":      "sunrise",
				"name":      "Sunrise",
				"component": "spotlight",
				"theme": map[string]any{
					"primary_color":   "#ff7e5f",
					"secondary_color": "#feb47b",
					"font":            "Georgia, serif",
				},
			},
		},
		failures: map[string]error{},
	}
}

// PutUser stores or replaces the raw user record for username.
func (m *MockSource) PutUser(username string, rec profile.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = rec
}

// PutRefs stores the template references for username.
func (m *MockSource) PutRefs(username string, refs []profile.TemplateRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[username] = refs
}

// PutTemplate stores or replaces the raw template definition for slug.
func (m *MockSource) PutTemplate(slug string, rec profile.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[slug] = rec
}

// Fail makes every call for key (a username or a slug) return err.
func (m *MockSource) Fail(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key] = err
}

func (m *MockSource) FetchUser(_ context.Context, username string) (profile.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[username]; err != nil {
		return nil, err
	}
	rec, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MockSource) ListUsedTemplates(_ context.Context, username string) ([]profile.TemplateRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[username]; err != nil {
		return nil, err
	}
	refs := m.refs[username]
	out := make([]profile.TemplateRef, len(refs))
	copy(out, refs)
	return out, nil
}

func (m *MockSource) FetchTemplate(_ context.Context, slug string) (profile.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[slug]; err != nil {
		return nil, err
	}
	rec, ok := m.templates[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// cloneRecord deep-copies the map and slice values of rec.
func cloneRecord(rec profile.Record) profile.Record {
	out, _ := cloneValue(map[string]any(rec)).(map[string]any)
	return profile.Record(out)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case profile.Record:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Compile-time interface check
var _ Source = (*MockSource)(nil)
