package normalize

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/janisto/profile-composer/internal/profile"
)

func TestTemplateRefs(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []profile.TemplateRef
	}{
		{
			name: "bare list",
			raw: []any{
				map[string]any{"slug": "a", "status": "saved"},
				map[string]any{"slug": "b", "status": "BOUGHT"},
			},
			want: []profile.TemplateRef{
				{Slug: "a", Status: profile.RefStatusSaved},
				{Slug: "b", Status: profile.RefStatusBought},
			},
		},
		{
			name: "envelope with nested template objects",
			raw: map[string]any{
				"usedTemplates": []any{
					map[string]any{"template": map[string]any{"slug": "ocean"}, "status": "applied"},
				},
			},
			want: []profile.TemplateRef{{Slug: "ocean", Status: profile.RefStatusOther}},
		},
		{
			name: "string elements and refs without slug",
			raw:  []any{" sunset ", map[string]any{"status": "saved"}, "", 7.0, map[string]any{"template_slug": "dusk"}},
			want: []profile.TemplateRef{
				{Slug: "sunset", Status: profile.RefStatusOther},
				{Slug: "dusk", Status: profile.RefStatusOther},
			},
		},
		{
			name: "data envelope",
			raw:  map[string]any{"data": []any{map[string]any{"slug": "x"}}},
			want: []profile.TemplateRef{{Slug: "x", Status: profile.RefStatusOther}},
		},
		{name: "nil", raw: nil, want: []profile.TemplateRef{}},
		{name: "garbage", raw: "nope", want: []profile.TemplateRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TemplateRefs(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("refs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	raw := profile.Record{
		"data": map[string]any{
			"_id":        json.Number("99"),
			"slug":       "ocean",
			"title":      "Ocean",
			"is_premium": true,
			"price":      "9.99",
			"discount":   json.Number("20"),
			"component":  "spotlight",
			"visual_props": map[string]any{
				"primary_color":   "#003366",
				"backgroundColor": "#ffffff",
				"thumbnail":       "/thumbs/ocean.png",
			},
			"layout": "spotlight",
		},
	}
	got, issues := Template(raw)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
	price, discount := 9.99, 20.0
	want := &profile.Template{
		ID:   "99",
		Slug: "ocean",
		Name: "Ocean",
		Visual: profile.VisualProps{
			PrimaryColor:    "#003366",
			BackgroundColor: "#ffffff",
			Layout:          "spotlight",
			ThumbnailURL:    "/thumbs/ocean.png",
		},
		IsPremium:    true,
		Price:        &price,
		Discount:     &discount,
		ComponentRef: "spotlight",
		Status:       profile.RefStatusOther,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateWithoutComponent(t *testing.T) {
	got, _ := Template(profile.Record{"slug": "plain", "name": "Plain"})
	if got == nil {
		t.Fatal("expected a template")
	}
	if got.ComponentRef != "" {
		t.Errorf("expected empty component ref, got %q", got.ComponentRef)
	}
	if got.Price != nil || got.Discount != nil {
		t.Errorf("expected nil price and discount, got %v %v", got.Price, got.Discount)
	}
}

func TestTemplateEmptyOrBadValues(t *testing.T) {
	if got, _ := Template(nil); got != nil {
		t.Errorf("expected nil for nil record, got %+v", got)
	}
	if got, _ := Template(profile.Record{}); got != nil {
		t.Errorf("expected nil for empty record, got %+v", got)
	}

	got, issues := Template(profile.Record{"slug": "x", "price": "free", "name": 3.0})
	if got == nil {
		t.Fatal("expected a template")
	}
	if got.Price != nil {
		t.Errorf("expected nil price, got %v", *got.Price)
	}
	if got.Name != "" {
		t.Errorf("expected empty name, got %q", got.Name)
	}
	if len(issues) != 2 {
		t.Errorf("expected 2 issues, got %+v", issues)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]profile.RefStatus{
		"saved":   profile.RefStatusSaved,
		" Saved ": profile.RefStatusSaved,
		"bought":  profile.RefStatusBought,
		"":        profile.RefStatusOther,
		"gifted":  profile.RefStatusOther,
	}
	for in, want := range tests {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}
}
