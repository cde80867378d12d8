package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

var testBase = normalize.MustAssetBase("https://cdn.example.com/assets")

// countingSource records which slugs were fetched.
type countingSource struct {
	*upstream.MockSource
	mu      sync.Mutex
	fetched []string
}

func (c *countingSource) FetchTemplate(ctx context.Context, slug string) (profile.Record, error) {
	c.mu.Lock()
	c.fetched = append(c.fetched, slug)
	c.mu.Unlock()
	return c.MockSource.FetchTemplate(ctx, slug)
}

func newSource() *countingSource {
	return &countingSource{MockSource: upstream.NewMockSource()}
}

func TestResolveNoReferences(t *testing.T) {
	src := newSource()
	r := New(src, testBase)

	if got := r.Resolve(context.Background(), "noSuchUser"); got != nil {
		t.Fatalf("expected nil template, got %+v", got)
	}
	if len(src.fetched) != 0 {
		t.Errorf("expected no definition fetch, got %v", src.fetched)
	}
}

func TestResolveSelectsFirstReference(t *testing.T) {
	src := newSource()
	src.PutRefs("u", []profile.TemplateRef{
		{Slug: "a", Status: profile.RefStatusSaved},
		{Slug: "b", Status: profile.RefStatusBought},
	})
	src.PutTemplate("a", profile.Record{"slug": "a", "name": "A", "component": "classic"})
	src.PutTemplate("b", profile.Record{"slug": "b", "name": "B", "component": "spotlight"})

	got := New(src, testBase).Resolve(context.Background(), "u")
	if got == nil {
		t.Fatal("expected a template")
	}
	if got.Slug != "a" || got.Name != "A" {
		t.Errorf("expected template a, got %+v", got)
	}
	if got.Status != profile.RefStatusSaved {
		t.Errorf("expected status from the reference, got %s", got.Status)
	}
	if diff := cmp.Diff([]string{"a"}, src.fetched); diff != "" {
		t.Errorf("fetched slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSkipsReferencesWithoutSlug(t *testing.T) {
	src := newSource()
	src.PutRefs("u", []profile.TemplateRef{{Slug: ""}, {Slug: "b"}})
	src.PutTemplate("b", profile.Record{"slug": "b"})

	got := New(src, testBase).Resolve(context.Background(), "u")
	if got == nil || got.Slug != "b" {
		t.Fatalf("expected template b, got %+v", got)
	}
}

func TestResolveDegradesOnFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*countingSource)
	}{
		{
			name:  "reference list fails",
			setup: func(s *countingSource) { s.Fail("jane", upstream.ErrUpstream) },
		},
		{
			name:  "definition fetch fails",
			setup: func(s *countingSource) { s.Fail("ocean", errors.New("timeout")) },
		},
		{
			name:  "definition missing",
			setup: func(s *countingSource) { s.PutRefs("jane", []profile.TemplateRef{{Slug: "gone"}}) },
		},
		{
			name:  "definition empty",
			setup: func(s *countingSource) { s.PutTemplate("ocean", profile.Record{}) },
		},
		{
			name:  "canceled",
			setup: func(s *countingSource) { s.Fail("ocean", context.Canceled) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource()
			tt.setup(src)
			if got := New(src, testBase).Resolve(context.Background(), "jane"); got != nil {
				t.Fatalf("expected nil template, got %+v", got)
			}
		})
	}
}

func TestResolveRewritesAssetPaths(t *testing.T) {
	src := newSource()
	src.PutRefs("u", []profile.TemplateRef{{Slug: "t"}})
	src.PutTemplate("t", profile.Record{
		"slug":         "t",
		"thumbnail":    "/thumbs/t.png",
		"previewImage": "https://img.example.com/t.png",
	})

	got := New(src, testBase).Resolve(context.Background(), "u")
	if got == nil {
		t.Fatal("expected a template")
	}
	if got.Visual.ThumbnailURL != "https://cdn.example.com/assets/thumbs/t.png" {
		t.Errorf("expected rewritten thumbnail, got %s", got.Visual.ThumbnailURL)
	}
	if got.Visual.PreviewURL != "https://img.example.com/t.png" {
		t.Errorf("expected absolute preview unchanged, got %s", got.Visual.PreviewURL)
	}
}

func TestResolveKeepsTemplateWithoutComponent(t *testing.T) {
	src := newSource()

	got := New(src, testBase).Resolve(context.Background(), "sam")
	if got == nil {
		t.Fatal("expected a template")
	}
	if got.ComponentRef != "" {
		t.Errorf("expected empty component ref, got %q", got.ComponentRef)
	}
	if got.Visual.PreviewURL != "https://cdn.example.com/assets/previews/paper.png" {
		t.Errorf("unexpected preview url %s", got.Visual.PreviewURL)
	}
}

func TestResolveFillsSlugFromReference(t *testing.T) {
	src := newSource()
	src.PutRefs("u", []profile.TemplateRef{{Slug: "noslug"}})
	src.PutTemplate("noslug", profile.Record{"name": "Nameless"})

	got := New(src, testBase).Resolve(context.Background(), "u")
	if got == nil || got.Slug != "noslug" {
		t.Fatalf("expected slug from reference, got %+v", got)
	}
}

func TestTemplateLookup(t *testing.T) {
	r := New(newSource(), testBase)

	got, err := r.Template(context.Background(), "ocean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ComponentRef != "classic" {
		t.Errorf("expected component classic, got %q", got.ComponentRef)
	}
	if got.Status != profile.RefStatusOther {
		t.Errorf("expected status other, got %s", got.Status)
	}

	if _, err := r.Template(context.Background(), "missing"); !errors.Is(err, upstream.ErrNotFound) {
		t.Fatalf("expected upstream.ErrNotFound, got %v", err)
	}
}
