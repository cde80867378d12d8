// Package testutil connects tests to the local Firebase emulators. Tests that
// need an emulator skip when it is not listening.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

const (
	AuthEmulatorHost      = "127.0.0.1:7110"
	FirestoreEmulatorHost = "127.0.0.1:7130"
	ProjectID             = "demo-profile-composer"

	// The Auth emulator accepts any API key.
	emulatorAPIKey = "emulator"
)

type emulator struct {
	name      string
	host      string
	envVar    string
	resetPath string
}

var (
	authEmulator = emulator{
		name:      "Auth",
		host:      AuthEmulatorHost,
		envVar:    "FIREBASE_AUTH_EMULATOR_HOST",
		resetPath: "/emulator/v1/projects/%s/accounts",
	}
	firestoreEmulator = emulator{
		name:      "Firestore",
		host:      FirestoreEmulatorHost,
		envVar:    "FIRESTORE_EMULATOR_HOST",
		resetPath: "/emulator/v1/projects/%s/databases/(default)/documents",
	}
)

func (e emulator) reachable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", e.host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (e emulator) reset(t *testing.T) {
	t.Helper()
	url := "http://" + e.host + fmt.Sprintf(e.resetPath, ProjectID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("reset %s emulator: %v", e.name, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reset %s emulator: %v", e.name, err)
	}
	_ = resp.Body.Close()
}

// use skips t unless every emulator is listening, points the Firebase SDKs
// at them and leaves them empty before and after the test.
func use(t *testing.T, emulators ...emulator) {
	t.Helper()
	for _, e := range emulators {
		if !e.reachable() {
			t.Skipf("%s emulator not available on %s", e.name, e.host)
		}
	}
	for _, e := range emulators {
		t.Setenv(e.envVar, e.host)
		e.reset(t)
	}
	t.Cleanup(func() {
		for _, e := range emulators {
			e.reset(t)
		}
	})
}

// RequireFirestore prepares the Firestore emulator for t.
func RequireFirestore(t *testing.T) {
	t.Helper()
	use(t, firestoreEmulator)
}

// RequireEmulators prepares the Auth and Firestore emulators for t.
func RequireEmulators(t *testing.T) {
	t.Helper()
	use(t, authEmulator, firestoreEmulator)
}

// Account is a user created in the Auth emulator.
type Account struct {
	UID     string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// SignUp creates an email/password account and returns its ID token.
func SignUp(t *testing.T, email, password string) Account {
	t.Helper()
	url := fmt.Sprintf("http://%s/identitytoolkit.googleapis.com/v1/accounts:signUp?key=%s",
		AuthEmulatorHost, emulatorAPIKey)
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		t.Fatalf("encode sign-up request: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build sign-up request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign up %s: status %d", email, resp.StatusCode)
	}

	var acct Account
	if err := json.NewDecoder(resp.Body).Decode(&acct); err != nil {
		t.Fatalf("decode sign-up response: %v", err)
	}
	return acct
}
