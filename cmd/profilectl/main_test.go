package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestComposeJSON(t *testing.T) {
	out, _, err := execute("compose", "jane", "--asset-base", "https://cdn.example.com/assets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got composeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if got.Layout != "classic" {
		t.Errorf("expected layout classic, got %s", got.Layout)
	}
	if got.View.Profile.Identity.DisplayName != "Jane Doe" {
		t.Errorf("unexpected display name %s", got.View.Profile.Identity.DisplayName)
	}
	if got.View.Profile.AvatarURL == nil || *got.View.Profile.AvatarURL != "https://cdn.example.com/assets/avatars/jane.png" {
		t.Errorf("unexpected avatar %v", got.View.Profile.AvatarURL)
	}
}

func TestComposeYAML(t *testing.T) {
	out, _, err := execute("compose", "alex", "--format", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "{") {
		t.Errorf("expected block style YAML, got:\n%s", out)
	}

	var got map[string]any
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to decode YAML: %v", err)
	}
	if got["layout"] != "neutral" {
		t.Errorf("expected layout neutral, got %v", got["layout"])
	}
	view, _ := got["view"].(map[string]any)
	if view["template"] != nil {
		t.Errorf("expected null template, got %v", view["template"])
	}
}

func TestComposeNotFound(t *testing.T) {
	_, _, err := execute("compose", "nobody")
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected errNotFound, got %v", err)
	}
}

func TestTemplateCommand(t *testing.T) {
	out, _, err := execute("template", "sunrise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"componentRef": "spotlight"`) {
		t.Errorf("expected the spotlight component, got:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains string
		document bool
	}{
		{"page", []string{"render", "mia"}, false, `data-layout="spotlight"`, true},
		{"fragment", []string{"render", "mia", "--fragment"}, false, `data-layout="spotlight"`, false},
		{"not found", []string{"render", "nobody"}, true, "Profile Not Found", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, out)
			}
			if got := strings.Contains(strings.ToLower(out), "<!doctype html>"); got != tt.document {
				t.Errorf("expected document=%v, got %v", tt.document, got)
			}
		})
	}
}

func TestRenderLogsToStderr(t *testing.T) {
	out, errOut, err := execute("render", "jane", "--verbose")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Render event") {
		t.Error("logs must not be written to stdout")
	}
	if !strings.Contains(errOut, "Render event") {
		t.Errorf("expected the render event on stderr, got %q", errOut)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/kim":
			_, _ = w.Write([]byte(`{"username": "kim", "name": "Kim"}`))
		case "/profile/kim/used-templates":
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, _, err := execute("--source", "http", "--upstream-url", srv.URL, "compose", "kim")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"displayName": "Kim"`) {
		t.Errorf("expected Kim, got:\n%s", out)
	}
}

func TestSetupErrors(t *testing.T) {
	tests := [][]string{
		{"--source", "http", "compose", "jane"},
		{"--source", "ftp", "compose", "jane"},
		{"--asset-base", "not a url", "compose", "jane"},
		{"compose", "jane", "--format", "xml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, _, err := execute(args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
