package normalize

import (
	"strings"

	"github.com/janisto/profile-composer/internal/profile"
)

var (
	refListKeys    = []string{"templates", "usedTemplates", "used_templates", "data"}
	refSlugKeys    = []string{"slug", "templateSlug", "template_slug"}
	refNestedKeys  = []string{"template"}
	refStatusKeys  = []string{"status"}
	tmplEnvelopes  = []string{"data", "template"}
	tmplIDKeys     = []string{"id", "_id", "templateId", "template_id"}
	tmplNameKeys   = []string{"name", "title"}
	tmplVisualKeys = []string{"visual", "visualProps", "visual_props", "theme"}
	primaryKeys    = []string{"primaryColor", "primary_color"}
	secondaryKeys  = []string{"secondaryColor", "secondary_color"}
	backgroundKeys = []string{"backgroundColor", "background_color", "bgColor"}
	textColorKeys  = []string{"textColor", "text_color"}
	fontKeys       = []string{"fontFamily", "font_family", "font"}
	layoutKeys     = []string{"layout", "layoutId", "layout_id"}
	thumbnailKeys  = []string{"thumbnail", "thumbnailUrl", "thumbnail_url"}
	previewKeys    = []string{"previewImage", "preview_image", "previewUrl", "preview_url", "preview"}
	premiumKeys    = []string{"isPremium", "is_premium", "premium"}
	priceKeys      = []string{"price"}
	discountKeys   = []string{"discount", "discountPercent", "discount_percent"}
	componentKeys  = []string{"component", "componentRef", "component_ref", "componentName", "component_name"}
)

// TemplateRefs normalizes a used-templates payload: either a bare list or an
// object holding the list under one of the known keys. References without a
// slug are dropped; the source order is preserved.
func TemplateRefs(raw any) []profile.TemplateRef {
	items, ok := asList(raw)
	if !ok {
		if rec, isRec := asRecord(raw); isRec {
			for _, k := range refListKeys {
				if items, ok = asList(rec[k]); ok {
					break
				}
			}
		}
	}
	refs := make([]profile.TemplateRef, 0, len(items))
	for _, item := range items {
		if s, isString := item.(string); isString {
			if s = strings.TrimSpace(s); s != "" {
				refs = append(refs, profile.TemplateRef{Slug: s, Status: profile.RefStatusOther})
			}
			continue
		}
		var discard Issues
		rec, ok := asRecord(item)
		if !ok {
			continue
		}
		slug, ok := text(rec, "slug", &discard, refSlugKeys...)
		if !ok {
			if inner := nested(rec, refNestedKeys...); inner != nil {
				slug, ok = text(inner, "slug", &discard, refSlugKeys...)
			}
		}
		if !ok {
			continue
		}
		status, _ := text(rec, "status", &discard, refStatusKeys...)
		refs = append(refs, profile.TemplateRef{Slug: slug, Status: ParseStatus(status)})
	}
	return refs
}

// ParseStatus maps a raw status tag to a RefStatus.
func ParseStatus(s string) profile.RefStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(profile.RefStatusSaved):
		return profile.RefStatusSaved
	case string(profile.RefStatusBought):
		return profile.RefStatusBought
	default:
		return profile.RefStatusOther
	}
}

// Template normalizes a raw template definition. It returns nil when raw
// holds no fields. Asset paths are returned as found; rewriting them is the
// resolver's job.
func Template(raw profile.Record) (*profile.Template, Issues) {
	var issues Issues
	rec := unwrap(raw, tmplEnvelopes...)
	if len(rec) == 0 {
		return nil, issues
	}
	visual := nested(rec, tmplVisualKeys...)
	scopes := []profile.Record{visual, rec}

	id, _ := identifier(rec, "id", &issues, tmplIDKeys...)
	slug, _ := text(rec, "slug", &issues, refSlugKeys...)
	name, _ := text(rec, "name", &issues, tmplNameKeys...)
	premium, _ := flag(rec, premiumKeys...)
	component, _ := text(rec, "component", &issues, componentKeys...)

	str := func(field string, keys []string) string {
		s, _ := firstText(scopes, field, &issues, keys...)
		return s
	}

	t := &profile.Template{
		ID:   id,
		Slug: slug,
		Name: name,
		Visual: profile.VisualProps{
			PrimaryColor:    str("primaryColor", primaryKeys),
			SecondaryColor:  str("secondaryColor", secondaryKeys),
			BackgroundColor: str("backgroundColor", backgroundKeys),
			TextColor:       str("textColor", textColorKeys),
			FontFamily:      str("fontFamily", fontKeys),
			Layout:          str("layout", layoutKeys),
			ThumbnailURL:    str("thumbnail", thumbnailKeys),
			PreviewURL:      str("preview", previewKeys),
		},
		IsPremium:    premium,
		Price:        number(rec, "price", &issues, priceKeys...),
		Discount:     number(rec, "discount", &issues, discountKeys...),
		ComponentRef: component,
		Status:       profile.RefStatusOther,
	}
	return t, issues
}
