// Package firebase initializes the Firebase Admin SDK clients the service
// needs: Auth for viewer tokens and Firestore for the profile source.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNoClients is returned when Config requests neither client.
var ErrNoClients = errors.New("firebase: no clients requested")

// Config holds Firebase configuration.
type Config struct {
	ProjectID                    string
	GoogleApplicationCredentials string // Path to service account JSON (optional)
	Auth                         bool
	Firestore                    bool
}

// Clients holds initialized Firebase clients. A client that was not
// requested is nil.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients sets up Firebase and returns the requested clients.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if !cfg.Auth && !cfg.Firestore {
		return nil, ErrNoClients
	}

	var opts []option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		creds, err := os.ReadFile(cfg.GoogleApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firebase app: %w", err)
	}

	clients := &Clients{}
	if cfg.Auth {
		if clients.Auth, err = fbApp.Auth(ctx); err != nil {
			return nil, fmt.Errorf("creating auth client: %w", err)
		}
	}
	if cfg.Firestore {
		if clients.Firestore, err = fbApp.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("creating firestore client: %w", err)
		}
	}
	return clients, nil
}

// Close closes the Firestore client.
func (c *Clients) Close() error {
	if c != nil && c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
