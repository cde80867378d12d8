package normalize

import "testing"

func TestNewAssetBase(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "https://cdn.example.com/uploads", want: "https://cdn.example.com/uploads/"},
		{raw: "https://cdn.example.com/uploads/", want: "https://cdn.example.com/uploads/"},
		{raw: "http://localhost:9000", want: "http://localhost:9000/"},
		{raw: "", want: ""},
		{raw: "/uploads", wantErr: true},
		{raw: "ftp://cdn.example.com", wantErr: true},
	}
	for _, tt := range tests {
		b, err := NewAssetBase(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewAssetBase(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewAssetBase(%q): unexpected error: %v", tt.raw, err)
		}
		if b.String() != tt.want {
			t.Errorf("NewAssetBase(%q) = %q, want %q", tt.raw, b.String(), tt.want)
		}
	}
}

func TestAssetBaseAbsolute(t *testing.T) {
	b := MustAssetBase("https://cdn.example.com/uploads")
	tests := map[string]string{
		"img/a.png":                   "https://cdn.example.com/uploads/img/a.png",
		"/img/a.png":                  "https://cdn.example.com/uploads/img/a.png",
		"https://other.example/a.png": "https://other.example/a.png",
		"//cdn.other.example/a.png":   "//cdn.other.example/a.png",
		"data:image/png;base64,AAAA":  "data:image/png;base64,AAAA",
		"":                            "",
	}
	for in, want := range tests {
		if got := b.Absolute(in); got != want {
			t.Errorf("Absolute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestZeroAssetBaseLeavesPathsUnchanged(t *testing.T) {
	var b AssetBase
	if got := b.Absolute("/img/a.png"); got != "/img/a.png" {
		t.Errorf("expected unchanged path, got %q", got)
	}
}

func TestSocialLinksNilIssues(t *testing.T) {
	links := SocialLinks([]any{map[string]any{"platform": "github", "url": "https://github.com/jane"}}, nil)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
}
