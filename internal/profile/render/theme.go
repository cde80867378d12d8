package render

import (
	"regexp"
	"strings"

	"github.com/janisto/profile-composer/internal/profile"
)

var (
	colorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{4}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{3,20})$`)
	fontRe  = regexp.MustCompile(`^[a-zA-Z0-9 ,'\-]{1,80}$`)
)

// themeStyle builds the inline custom properties for v. Values that are not
// plain colors or font lists are dropped.
func themeStyle(v profile.VisualProps) string {
	vars := []struct {
		name  string
		value string
		ok    func(string) bool
	}{
		{"--pc-primary", v.PrimaryColor, colorRe.MatchString},
		{"--pc-secondary", v.SecondaryColor, colorRe.MatchString},
		{"--pc-background", v.BackgroundColor, colorRe.MatchString},
		{"--pc-text", v.TextColor, colorRe.MatchString},
		{"--pc-font", v.FontFamily, fontRe.MatchString},
	}

	var b strings.Builder
	for _, cv := range vars {
		val := strings.TrimSpace(cv.value)
		if val == "" || !cv.ok(val) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cv.name)
		b.WriteString(": ")
		b.WriteString(val)
		b.WriteByte(';')
	}
	return b.String()
}
