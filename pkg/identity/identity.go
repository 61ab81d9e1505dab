// Package identity verifies bearer tokens and resolves them to a subject id.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("expired token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Verifier resolves a bearer token to the id of its subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (string, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}
