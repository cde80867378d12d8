package auth

import "context"

// StaticVerifier accepts the tokens it maps to claims and rejects the rest.
// It backs tests and local runs without an identity provider.
type StaticVerifier map[string]Claims

func (s StaticVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	c, ok := s[token]
	if !ok {
		return nil, &RejectedError{Reason: ReasonMalformed}
	}
	return &c, nil
}

var _ Verifier = StaticVerifier(nil)
