package profiles

import (
	"github.com/janisto/profile-composer/internal/platform/timeutil"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/social"
)

// Icon is the presentation of a social platform.
type Icon struct {
	Key   string `json:"key"   doc:"Canonical platform key" example:"github"`
	Name  string `json:"name"  doc:"Platform display name"  example:"GitHub"`
	Color string `json:"color" doc:"Brand color"            example:"#181717"`
	Glyph string `json:"glyph" doc:"Short text glyph"       example:"GH"`
}

// SocialLink is a visible social link of a profile.
type SocialLink struct {
	ID       string `json:"id"       doc:"Link identifier, unique within the profile" example:"github"`
	Platform string `json:"platform" doc:"Normalized platform key"                    example:"github"`
	Label    string `json:"label"    doc:"Label as entered by the user"               example:"GitHub"`
	URL      string `json:"url"      doc:"Stored link value"                          example:"https://github.com/jane"`
	Href     string `json:"href"     doc:"Navigable link target, empty when unsafe"   example:"https://github.com/jane"`
	Icon     Icon   `json:"icon"`
}

// Visual carries the presentation metadata of a template.
type Visual struct {
	PrimaryColor    string `json:"primaryColor,omitempty"    example:"#0b4f6c"`
	SecondaryColor  string `json:"secondaryColor,omitempty"  example:"#feb47b"`
	BackgroundColor string `json:"backgroundColor,omitempty" example:"#f0f7fa"`
	TextColor       string `json:"textColor,omitempty"       example:"#102a43"`
	FontFamily      string `json:"fontFamily,omitempty"      example:"Inter, sans-serif"`
	Layout          string `json:"layout,omitempty"          example:"centered"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"    example:"https://cdn.example.com/thumbs/ocean.png"`
	PreviewURL      string `json:"previewUrl,omitempty"      example:"https://cdn.example.com/previews/ocean.png"`
}

// Template is a resolved template definition.
type Template struct {
	ID           string   `json:"id"                     doc:"Template identifier"                  example:"t-1"`
	Slug         string   `json:"slug"                   doc:"Template slug"                        example:"ocean"`
	Name         string   `json:"name"                   doc:"Display name"                         example:"Ocean"`
	ComponentRef string   `json:"componentRef,omitempty" doc:"Named layout component"               example:"classic"`
	Layout       string   `json:"layout"                 doc:"Layout the profile page renders with" example:"classic"`
	IsPremium    bool     `json:"isPremium"              doc:"Premium template"                     example:"true"`
	Price        *float64 `json:"price,omitempty"        doc:"Price"                                example:"9.99"`
	Discount     *float64 `json:"discount,omitempty"     doc:"Discount percentage"                  example:"20"`
	Status       string   `json:"status,omitempty"       doc:"How the user obtained the template"   example:"bought" enum:"saved,bought,other"`
	Visual       Visual   `json:"visual"`
}

// ProfileView is the composed, public view of a profile.
type ProfileView struct {
	ID          string        `json:"id,omitempty"        doc:"User identifier"            example:"u-1001"`
	Username    string        `json:"username"            doc:"Username"                   example:"jane"`
	DisplayName string        `json:"displayName"         doc:"Display name"               example:"Jane Doe"`
	AvatarURL   *string       `json:"avatarUrl,omitempty" doc:"Absolute avatar URL"        example:"https://cdn.example.com/avatars/jane.png"`
	Bio         *string       `json:"bio,omitempty"       doc:"Biography"                  example:"Designer and weekend climber."`
	Location    *string       `json:"location,omitempty"  doc:"Location"                   example:"Helsinki"`
	Website     *string       `json:"website,omitempty"   doc:"Personal website"           example:"https://jane.example.com"`
	Phone       *string       `json:"phone,omitempty"     doc:"Phone number"               example:"+358401234567"`
	SocialLinks []SocialLink  `json:"socialLinks"         doc:"Visible social links"`
	Layout      string        `json:"layout"              doc:"Layout the page renders"    example:"classic"`
	Template    *Template     `json:"template,omitempty"  doc:"Applied template, if any"`
	ShareURL    string        `json:"shareUrl,omitempty"  doc:"Public page URL"            example:"https://profiles.example.com/u/jane"`
	Owner       bool          `json:"owner"               doc:"Viewer owns this profile"   example:"false"`
	ComposedAt  timeutil.Time `json:"composedAt"          doc:"When the view was composed" example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPTemplate(t *profile.Template, layout string) *Template {
	if t == nil {
		return nil
	}
	v := t.Visual
	return &Template{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		ComponentRef: t.ComponentRef,
		Layout:       layout,
		IsPremium:    t.IsPremium,
		Price:        t.Price,
		Discount:     t.Discount,
		Status:       string(t.Status),
		Visual: Visual{
			PrimaryColor:    v.PrimaryColor,
			SecondaryColor:  v.SecondaryColor,
			BackgroundColor: v.BackgroundColor,
			TextColor:       v.TextColor,
			FontFamily:      v.FontFamily,
			Layout:          v.Layout,
			ThumbnailURL:    v.ThumbnailURL,
			PreviewURL:      v.PreviewURL,
		},
	}
}

func toHTTPLinks(links []profile.SocialLink) []SocialLink {
	out := make([]SocialLink, 0, len(links))
	for _, l := range links {
		icon := social.Resolve(l.DisplayLabel)
		out = append(out, SocialLink{
			ID:       l.ID,
			Platform: l.PlatformKey,
			Label:    l.DisplayLabel,
			URL:      l.URL,
			Href:     icon.Href(l.URL),
			Icon: Icon{
				Key:   icon.Key,
				Name:  icon.Name,
				Color: icon.Color,
				Glyph: icon.Glyph,
			},
		})
	}
	return out
}
