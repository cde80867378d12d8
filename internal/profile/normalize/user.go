// Package normalize converts shape-ambiguous upstream records into the
// canonical records of package profile.
//
// Every field is read through a fixed precedence list of keys; the first key
// holding a usable value wins. Normalization never fails: unusable values
// degrade to the field's sentinel and are reported as Issues.
package normalize

import (
	"github.com/janisto/profile-composer/internal/profile"
)

// Key precedence lists, most preferred first.
var (
	userEnvelopes   = []string{"data", "user"}
	profileObjKeys  = []string{"profile"}
	idKeys          = []string{"id", "_id", "userId", "user_id"}
	usernameKeys    = []string{"username", "userName", "user_name"}
	displayNameKeys = []string{"display_name", "displayName", "name", "fullName", "full_name"}
	emailKeys       = []string{"email", "emailAddress", "email_address"}
	avatarURLKeys   = []string{"avatarUrl", "avatar_url", "avatar"}
	imagePathKeys   = []string{"profileImage", "profile_image", "profilePicture", "profile_picture"}
	bioKeys         = []string{"bio", "about"}
	locationKeys    = []string{"location", "city"}
	phoneKeys       = []string{"phone", "phoneNumber", "phone_number"}
	websiteKeys     = []string{"website", "websiteUrl", "website_url"}
	socialLinkKeys  = []string{"socialLinks", "social_links"}
)

// User normalizes a raw user payload. Accepted shapes, in order: a "data"
// envelope, a "user" envelope, then the flat record; contact fields are read
// from a nested "profile" object before top-level aliases.
func User(raw profile.Record, base AssetBase) (profile.Profile, Issues) {
	var issues Issues
	rec := unwrap(raw, userEnvelopes...)
	inner := nested(rec, profileObjKeys...)
	scopes := []profile.Record{inner, rec}

	id, _ := identifier(rec, "id", &issues, idKeys...)
	username, _ := text(rec, "username", &issues, usernameKeys...)
	displayName, _ := firstText(scopes, "displayName", &issues, displayNameKeys...)
	email, _ := text(rec, "email", &issues, emailKeys...)

	p := profile.Profile{
		Identity: profile.Identity{
			ID:          id,
			Username:    username,
			DisplayName: displayName,
			Email:       email,
		},
		AvatarURL: avatar(rec, inner, base, &issues),
		Bio:       optional(scopes, "bio", &issues, bioKeys...),
		Location:  optional(scopes, "location", &issues, locationKeys...),
		Website:   optional(scopes, "website", &issues, websiteKeys...),
		Phone:     optional(scopes, "phone", &issues, phoneKeys...),
	}
	p.SocialLinks = socialLinks(scopes, &issues)
	return p, issues
}

// avatar prefers an absolute avatar URL, then a profile image, then a
// relative avatar URL, then nil. Relative values are resolved against base.
// Each key is checked on its own so that a relative value never hides an
// absolute one, and the top-level record is checked before the nested
// profile object.
func avatar(rec, inner profile.Record, base AssetBase, issues *Issues) *string {
	scopes := []profile.Record{rec, inner}
	relative := ""
	for _, scope := range scopes {
		for _, key := range avatarURLKeys {
			s, ok := text(scope, "avatarUrl", issues, key)
			if !ok {
				continue
			}
			if IsAbsoluteURL(s) {
				return ptr(s)
			}
			if relative == "" {
				relative = s
			}
		}
	}
	for _, scope := range scopes {
		if s, ok := text(scope, "profileImage", issues, imagePathKeys...); ok {
			return ptr(base.Absolute(s))
		}
	}
	if relative != "" {
		return ptr(base.Absolute(relative))
	}
	return nil
}

func firstText(scopes []profile.Record, field string, issues *Issues, keys ...string) (string, bool) {
	for _, scope := range scopes {
		if s, ok := text(scope, field, issues, keys...); ok {
			return s, true
		}
	}
	return "", false
}

func optional(scopes []profile.Record, field string, issues *Issues, keys ...string) *string {
	if s, ok := firstText(scopes, field, issues, keys...); ok {
		return ptr(s)
	}
	return nil
}
