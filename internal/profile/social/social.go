// Package social maps free-text platform labels to presentation icons.
package social

import (
	"net/url"
	"strings"
)

// Behavior controls how a link href is built from the stored value.
type Behavior string

const (
	BehaviorURL      Behavior = "url"
	BehaviorMailto   Behavior = "mailto"
	BehaviorTel      Behavior = "tel"
	BehaviorWhatsApp Behavior = "whatsapp"
)

// Icon describes how a platform is presented.
type Icon struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Glyph    string   `json:"glyph"`
	Behavior Behavior `json:"behavior"`
}

// FallbackKey is the icon key used for unknown platforms.
const FallbackKey = "link"

var fallback = Icon{Key: FallbackKey, Name: "Link", Color: "#6b7280", Glyph: "🔗", Behavior: BehaviorURL}

var icons = map[string]Icon{
	"instagram": {Key: "instagram", Name: "Instagram", Color: "#e4405f", Glyph: "IG", Behavior: BehaviorURL},
	"facebook":  {Key: "facebook", Name: "Facebook", Color: "#1877f2", Glyph: "f", Behavior: BehaviorURL},
	"twitter":   {Key: "twitter", Name: "X", Color: "#000000", Glyph: "𝕏", Behavior: BehaviorURL},
	"linkedin":  {Key: "linkedin", Name: "LinkedIn", Color: "#0a66c2", Glyph: "in", Behavior: BehaviorURL},
	"github":    {Key: "github", Name: "GitHub", Color: "#181717", Glyph: "GH", Behavior: BehaviorURL},
	"youtube":   {Key: "youtube", Name: "YouTube", Color: "#ff0000", Glyph: "▶", Behavior: BehaviorURL},
	"tiktok":    {Key: "tiktok", Name: "TikTok", Color: "#010101", Glyph: "♪", Behavior: BehaviorURL},
	"whatsapp":  {Key: "whatsapp", Name: "WhatsApp", Color: "#25d366", Glyph: "WA", Behavior: BehaviorWhatsApp},
	"telegram":  {Key: "telegram", Name: "Telegram", Color: "#26a5e4", Glyph: "TG", Behavior: BehaviorURL},
	"website":   {Key: "website", Name: "Website", Color: "#4f46e5", Glyph: "🌐", Behavior: BehaviorURL},
	"email":     {Key: "email", Name: "Email", Color: "#ea4335", Glyph: "✉", Behavior: BehaviorMailto},
	"phone":     {Key: "phone", Name: "Phone", Color: "#16a34a", Glyph: "☎", Behavior: BehaviorTel},
	"dribbble":  {Key: "dribbble", Name: "Dribbble", Color: "#ea4c89", Glyph: "Dr", Behavior: BehaviorURL},
	"behance":   {Key: "behance", Name: "Behance", Color: "#1769ff", Glyph: "Bē", Behavior: BehaviorURL},
	"pinterest": {Key: "pinterest", Name: "Pinterest", Color: "#bd081c", Glyph: "P", Behavior: BehaviorURL},
	"snapchat":  {Key: "snapchat", Name: "Snapchat", Color: "#fffc00", Glyph: "👻", Behavior: BehaviorURL},
	"discord":   {Key: "discord", Name: "Discord", Color: "#5865f2", Glyph: "DC", Behavior: BehaviorURL},
	"twitch":    {Key: "twitch", Name: "Twitch", Color: "#9146ff", Glyph: "TW", Behavior: BehaviorURL},
	"medium":    {Key: "medium", Name: "Medium", Color: "#000000", Glyph: "M", Behavior: BehaviorURL},
	"spotify":   {Key: "spotify", Name: "Spotify", Color: "#1db954", Glyph: "SP", Behavior: BehaviorURL},
}

// aliases resolve alternate spellings onto a canonical key.
var aliases = map[string]string{
	"x":      "twitter",
	"web":    "website",
	"site":   "website",
	"mail":   "email",
	"e-mail": "email",
	"tel":    "phone",
	"mobile": "phone",
}

// Key lower-cases and trims a platform label.
func Key(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Resolve returns the icon for label, or the generic link icon when the
// label is unknown. It accepts any string, including the empty string.
func Resolve(label string) Icon {
	k := Key(label)
	if canonical, ok := aliases[k]; ok {
		k = canonical
	}
	if icon, ok := icons[k]; ok {
		return icon
	}
	return fallback
}

// Known reports whether label maps to a dedicated icon.
func Known(label string) bool {
	return Resolve(label).Key != FallbackKey
}

// Href builds the link target for value according to the icon behavior.
// Values that already carry an http, https, mailto or tel scheme are returned
// unchanged; any other scheme yields "".
func (i Icon) Href(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if scheme, ok := schemeOf(v); ok {
		if !safeSchemes[scheme] {
			return ""
		}
		return v
	}
	switch i.Behavior {
	case BehaviorMailto:
		return "mailto:" + v
	case BehaviorTel:
		return "tel:" + strings.ReplaceAll(v, " ", "")
	case BehaviorWhatsApp:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, v)
		return "https://wa.me/" + digits
	default:
		return "https://" + v
	}
}

// Links with any other scheme render without an href.
var safeSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}

func schemeOf(v string) (string, bool) {
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", false
	}
	return strings.ToLower(u.Scheme), true
}
