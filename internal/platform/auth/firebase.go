package auth

import (
	"context"
	"errors"

	fbauth "firebase.google.com/go/v4/auth"
)

// Claims are the verified fields of an ID token.
type Claims struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier checks an ID token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Reason classifies a rejected token. Values are safe to log.
type Reason string

const (
	ReasonMalformed       Reason = "malformed"
	ReasonExpired         Reason = "expired"
	ReasonRevoked         Reason = "revoked"
	ReasonUserDisabled    Reason = "user_disabled"
	ReasonKeysUnavailable Reason = "keys_unavailable"
	ReasonUnknown         Reason = "unknown"
)

// RejectedError reports why a Verifier refused a token.
type RejectedError struct {
	Reason Reason
	Err    error
}

func (e *RejectedError) Error() string {
	if e.Err == nil {
		return "token rejected: " + string(e.Reason)
	}
	return "token rejected: " + string(e.Reason) + ": " + e.Err.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the rejection reason carried by err.
func ReasonOf(err error) Reason {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Reason != "" {
		return rejected.Reason
	}
	return ReasonUnknown
}

// FirebaseVerifier verifies Firebase ID tokens, including revocation.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier returns a verifier backed by client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify validates idToken. Every failure is a *RejectedError.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, &RejectedError{Reason: firebaseReason(err), Err: err}
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	name, _ := token.Claims["name"].(string)
	return &Claims{UID: token.UID, Email: email, EmailVerified: verified, Name: name}, nil
}

func firebaseReason(err error) Reason {
	switch {
	case fbauth.IsCertificateFetchFailed(err):
		return ReasonKeysUnavailable
	case fbauth.IsIDTokenExpired(err):
		return ReasonExpired
	case fbauth.IsIDTokenRevoked(err):
		return ReasonRevoked
	case fbauth.IsUserDisabled(err):
		return ReasonUserDisabled
	default:
		return ReasonMalformed
	}
}

var _ Verifier = (*FirebaseVerifier)(nil)
