package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// idTokenVerifier is the part of *auth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier wraps an initialized Firebase Auth client.
func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return "", fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if decoded.UID == "" {
		return "", ErrMissingSubject
	}
	return decoded.UID, nil
}
