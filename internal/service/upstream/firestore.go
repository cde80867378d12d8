package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
)

const (
	profilesCollection      = "profiles"
	usedTemplatesCollection = "used_templates"
	templatesCollection     = "templates"
	usedTemplatesOrderField = "updated_at"
	usedTemplatesLimit      = 20
)

// FirestoreSource implements Source on Firestore documents:
// profiles/{username}, profiles/{username}/used_templates and templates/{slug}.
type FirestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource creates a new Firestore-backed source.
func NewFirestoreSource(client *firestore.Client) *FirestoreSource {
	return &FirestoreSource{client: client}
}

func (s *FirestoreSource) getRecord(ctx context.Context, collection, id string) (profile.Record, error) {
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		return nil, ErrNotFound
	}
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	data := doc.Data()
	if data == nil {
		return nil, ErrNotFound
	}
	return profile.Record(data), nil
}

// FetchUser returns the profile document for username.
func (s *FirestoreSource) FetchUser(ctx context.Context, username string) (profile.Record, error) {
	return s.getRecord(ctx, profilesCollection, username)
}

// ListUsedTemplates returns the user's template references, most recently
// updated first. A reference document without a slug field uses its
// document ID as the slug.
func (s *FirestoreSource) ListUsedTemplates(ctx context.Context, username string) ([]profile.TemplateRef, error) {
	if strings.TrimSpace(username) == "" || strings.Contains(username, "/") {
		return nil, ErrNotFound
	}
	iter := s.client.Collection(profilesCollection).Doc(username).
		Collection(usedTemplatesCollection).
		OrderBy(usedTemplatesOrderField, firestore.Desc).
		Limit(usedTemplatesLimit).
		Documents(ctx)
	defer iter.Stop()

	var items []any
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing used templates: %w", err)
		}
		data := doc.Data()
		if data == nil {
			data = map[string]any{}
		}
		if _, ok := data["slug"]; !ok {
			data["slug"] = doc.Ref.ID
		}
		items = append(items, data)
	}
	return normalize.TemplateRefs(items), nil
}

// FetchTemplate returns the template document for slug.
func (s *FirestoreSource) FetchTemplate(ctx context.Context, slug string) (profile.Record, error) {
	return s.getRecord(ctx, templatesCollection, slug)
}

// Compile-time interface check
var _ Source = (*FirestoreSource)(nil)
