package normalize

import (
	"fmt"
	"net/url"
	"strings"
)

// AssetBase rewrites relative asset paths (avatars, thumbnails) into absolute
// URLs. The zero value leaves relative paths unchanged.
type AssetBase struct {
	base *url.URL
}

// NewAssetBase parses raw, which must be an absolute http(s) URL. An empty
// string yields the zero AssetBase.
func NewAssetBase(raw string) (AssetBase, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AssetBase{}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return AssetBase{}, fmt.Errorf("parsing asset base: %w", err)
	}
	if !IsAbsoluteURL(u.String()) {
		return AssetBase{}, fmt.Errorf("asset base %q must be an absolute http(s) URL", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return AssetBase{base: u}, nil
}

// MustAssetBase is NewAssetBase for constants in tests and wiring code.
func MustAssetBase(raw string) AssetBase {
	b, err := NewAssetBase(raw)
	if err != nil {
		panic(err)
	}
	return b
}

// String returns the normalized base URL, or "" for the zero value.
func (b AssetBase) String() string {
	if b.base == nil {
		return ""
	}
	return b.base.String()
}

// Absolute resolves path against the base. Absolute URLs, protocol-relative
// URLs and data URIs are returned unchanged. A leading slash is treated as
// relative to the base, not to the host root.
func (b AssetBase) Absolute(path string) string {
	p := strings.TrimSpace(path)
	if p == "" || IsAbsoluteURL(p) || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "data:") {
		return p
	}
	if b.base == nil {
		return p
	}
	ref, err := url.Parse(strings.TrimLeft(p, "/"))
	if err != nil {
		return p
	}
	return b.base.ResolveReference(ref).String()
}

// IsAbsoluteURL reports whether s is an http or https URL with a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
