// Package profile defines the canonical records produced by the composition
// pipeline: the normalized profile, the resolved template and the view that
// pairs them for rendering.
package profile

// Record is a decoded upstream object whose shape is not known in advance.
// Values are whatever the decoder produced: string, bool, float64, int64,
// json.Number, []any, map[string]any or nil.
type Record map[string]any

// Identity holds the fields that establish who a profile belongs to.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Established reports whether the identity can be attributed to a user.
func (i Identity) Established() bool {
	return i.ID != "" || i.Username != ""
}

// SocialLink is a normalized social link. PlatformKey is the lower-cased,
// trimmed platform label and is unique within a profile.
type SocialLink struct {
	ID           string `json:"id"`
	PlatformKey  string `json:"platformKey"`
	DisplayLabel string `json:"displayLabel"`
	URL          string `json:"url"`
	Visible      bool   `json:"visible"`
}

// Profile is the canonical profile record. A nil pointer is the explicit
// "no value" sentinel; SocialLinks is never nil.
type Profile struct {
	Identity    Identity     `json:"identity"`
	AvatarURL   *string      `json:"avatarUrl"`
	Bio         *string      `json:"bio"`
	Location    *string      `json:"location"`
	Website     *string      `json:"website"`
	Phone       *string      `json:"phone"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

// VisibleLinks returns the links that should be shown, in order.
func (p Profile) VisibleLinks() []SocialLink {
	out := make([]SocialLink, 0, len(p.SocialLinks))
	for _, l := range p.SocialLinks {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// RefStatus tags how a user came to use a template.
type RefStatus string

const (
	RefStatusSaved  RefStatus = "saved"
	RefStatusBought RefStatus = "bought"
	RefStatusOther  RefStatus = "other"
)

// TemplateRef points at a template applied by a user.
type TemplateRef struct {
	Slug   string    `json:"slug"`
	Status RefStatus `json:"status"`
}

// VisualProps carries presentation metadata of a template. Empty strings mean
// the layout default applies.
type VisualProps struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
	Layout          string `json:"layout"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	PreviewURL      string `json:"previewUrl"`
}

// Template is a fully hydrated template definition. An empty ComponentRef
// means the definition names no renderable component.
type Template struct {
	ID           string      `json:"id"`
	Slug         string      `json:"slug"`
	Name         string      `json:"name"`
	Visual       VisualProps `json:"visual"`
	IsPremium    bool        `json:"isPremium"`
	Price        *float64    `json:"price"`
	Discount     *float64    `json:"discount"`
	ComponentRef string      `json:"componentRef"`
	Status       RefStatus   `json:"status"`
}

// View is the composed value handed to rendering. Build it with NewView and
// treat it as read-only afterwards.
type View struct {
	Profile  Profile   `json:"profile"`
	Template *Template `json:"template"`
}

// NewView copies p and t so the returned view shares no mutable state with
// the records it was built from.
func NewView(p Profile, t *Template) View {
	links := make([]SocialLink, len(p.SocialLinks))
	copy(links, p.SocialLinks)
	p.SocialLinks = links
	p.AvatarURL = cloneString(p.AvatarURL)
	p.Bio = cloneString(p.Bio)
	p.Location = cloneString(p.Location)
	p.Website = cloneString(p.Website)
	p.Phone = cloneString(p.Phone)

	var tc *Template
	if t != nil {
		c := *t
		c.Price = cloneFloat(t.Price)
		c.Discount = cloneFloat(t.Discount)
		tc = &c
	}
	return View{Profile: p, Template: tc}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
