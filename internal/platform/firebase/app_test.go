package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestClientsCloseReturnsNilWhenFirestoreNil(t *testing.T) {
	if err := (&Clients{}).Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var nilClients *Clients
	if err := nilClients.Close(); err != nil {
		t.Fatalf("expected nil error for nil clients, got %v", err)
	}
}

func TestInitializeClientsRequiresAClient(t *testing.T) {
	_, err := InitializeClients(context.Background(), Config{ProjectID: "demo-test-project"})
	if !errors.Is(err, ErrNoClients) {
		t.Fatalf("expected ErrNoClients, got %v", err)
	}
}

func TestInitializeClientsMissingCredentialsFile(t *testing.T) {
	_, err := InitializeClients(context.Background(), Config{
		ProjectID:                    "demo-test-project",
		GoogleApplicationCredentials: filepath.Join(t.TempDir(), "missing.json"),
		Firestore:                    true,
	})
	if err == nil {
		t.Fatal("expected error for a missing credentials file")
	}
}
