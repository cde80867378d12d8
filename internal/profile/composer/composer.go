// Package composer merges a normalized profile with its resolved template
// into the View handed to rendering.
package composer

import (
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
)

// Compose normalizes rawUser and pairs it with tmpl. It performs no I/O and
// never fails; issues describe fields that were present but unusable.
func Compose(rawUser profile.Record, tmpl *profile.Template, base normalize.AssetBase) (profile.View, normalize.Issues) {
	return compose(rawUser, tmpl, base, "")
}

// compose fills a missing username with requested when the record still
// carries an id, then falls back to the username for the display name.
func compose(
	rawUser profile.Record, tmpl *profile.Template, base normalize.AssetBase, requested string,
) (profile.View, normalize.Issues) {
	p, issues := normalize.User(rawUser, base)
	id := &p.Identity
	if id.Username == "" && id.ID != "" {
		id.Username = requested
	}
	if id.DisplayName == "" {
		id.DisplayName = id.Username
	}
	return profile.NewView(p, tmpl), issues
}
