package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/social"
)

var (
	linkIDKeys       = []string{"id", "_id"}
	linkPlatformKeys = []string{"platform", "platformName", "platform_name", "type"}
	linkLabelKeys    = []string{"displayLabel", "display_label", "label"}
	linkURLKeys      = []string{"url", "link", "href"}
	linkVisibleKeys  = []string{"isVisible", "is_visible", "visible"}
)

// socialLinks reads the first social link collection found in scopes. The
// collection may be a JSON-encoded string or a list of objects.
func socialLinks(scopes []profile.Record, issues *Issues) []profile.SocialLink {
	for _, scope := range scopes {
		for _, k := range socialLinkKeys {
			v, ok := scope[k]
			if !ok || v == nil {
				continue
			}
			return SocialLinks(v, issues)
		}
	}
	return []profile.SocialLink{}
}

// SocialLinks normalizes a raw social link collection. Elements without a
// non-empty url are dropped, duplicates by platform key keep the first
// occurrence, and a link is hidden only by an explicit boolean false.
func SocialLinks(raw any, issues *Issues) []profile.SocialLink {
	if issues == nil {
		issues = &Issues{}
	}
	items, ok := decodeLinkList(raw, issues)
	if !ok {
		return []profile.SocialLink{}
	}

	links := make([]profile.SocialLink, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	usedIDs := make(map[string]struct{}, len(items))

	for i, item := range items {
		rec, ok := asRecord(item)
		if !ok {
			issues.add("socialLinks", "element %d is %T, not an object", i, item)
			continue
		}
		url, ok := text(rec, "socialLinks.url", issues, linkURLKeys...)
		if !ok {
			issues.add("socialLinks", "element %d has no url", i)
			continue
		}
		label, _ := text(rec, "socialLinks.platform", issues, linkPlatformKeys...)
		key := social.Key(label)
		if _, dup := seen[key]; dup {
			issues.add("socialLinks", "element %d duplicates platform %q", i, key)
			continue
		}
		seen[key] = struct{}{}

		display, ok := text(rec, "socialLinks.label", issues, linkLabelKeys...)
		if !ok {
			display = label
		}
		if display == "" {
			display = social.Resolve(key).Name
		}

		visible := true
		if v, present := flag(rec, linkVisibleKeys...); present {
			visible = v
		}

		id := linkID(rec, key, len(links), usedIDs, issues)
		usedIDs[id] = struct{}{}

		links = append(links, profile.SocialLink{
			ID:           id,
			PlatformKey:  key,
			DisplayLabel: display,
			URL:          url,
			Visible:      visible,
		})
	}
	return links
}

func decodeLinkList(raw any, issues *Issues) ([]any, bool) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			issues.add("socialLinks", "undecodable string: %v", err)
			return nil, false
		}
		raw = decoded
	}
	if raw == nil {
		return nil, false
	}
	items, ok := asList(raw)
	if !ok {
		issues.add("socialLinks", "expected a list, got %T", raw)
		return nil, false
	}
	return items, true
}

// linkID prefers the raw id, then the platform key, then a positional id.
func linkID(rec profile.Record, key string, pos int, used map[string]struct{}, issues *Issues) string {
	if id, ok := identifier(rec, "socialLinks.id", issues, linkIDKeys...); ok {
		if _, taken := used[id]; !taken {
			return id
		}
	}
	if key != "" {
		if _, taken := used[key]; !taken {
			return key
		}
	}
	for n := pos; ; n++ {
		id := "link-" + strconv.Itoa(n)
		if _, taken := used[id]; !taken {
			return id
		}
	}
}
