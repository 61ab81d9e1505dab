package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID  = "test-key-cms"
	testIssuer = "https://securetoken.test/depa"
)

func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	data, _ := json.Marshal(jwks)
	return data
}

func newTestJWKSVerifier(t *testing.T, key *rsa.PrivateKey) *JWKSVerifier {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	require.NoError(t, err)
	return NewJWKSVerifierWithKeyfunc(kf, JWKSConfig{
		Issuer:   testIssuer,
		Audience: "depa",
		Leeway:   5 * time.Second,
	})
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(sub string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{"depa"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := newTestJWKSVerifier(t, key)
	ctx := context.Background()

	t.Run("valid token returns subject", func(t *testing.T) {
		sub, err := v.Verify(ctx, signRS256(t, key, validClaims("admin-uid")))
		require.NoError(t, err)
		assert.Equal(t, "admin-uid", sub)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("admin-uid")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Verify(ctx, signRS256(t, key, claims))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims("admin-uid")
		claims.Issuer = "https://evil.test"
		_, err := v.Verify(ctx, signRS256(t, key, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims("admin-uid")
		claims.Audience = jwt.ClaimStrings{"someone-else"}
		_, err := v.Verify(ctx, signRS256(t, key, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("signed by unknown key", func(t *testing.T) {
		_, err := v.Verify(ctx, signRS256(t, other, validClaims("admin-uid")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := v.Verify(ctx, signRS256(t, key, validClaims("")))
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier("local-secret", "depa-cms")
	ctx := context.Background()

	token, err := v.Issue("dev-admin", time.Hour)
	require.NoError(t, err)

	sub, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "dev-admin", sub)

	expired, err := v.Issue("dev-admin", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	forged, err := NewHMACVerifier("other-secret", "depa-cms").Issue("dev-admin", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHMACVerifier_RejectsNoneAlgorithm(t *testing.T) {
	v := NewHMACVerifier("local-secret", "")
	claims := validClaims("dev-admin")
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeIDTokenVerifier struct {
	token *auth.Token
	err   error
}

func (f fakeIDTokenVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()

	v := &FirebaseVerifier{client: fakeIDTokenVerifier{token: &auth.Token{UID: "firebase-uid"}}}
	sub, err := v.Verify(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid", sub)

	v = &FirebaseVerifier{client: fakeIDTokenVerifier{err: errors.New("bad signature")}}
	_, err = v.Verify(ctx, "id-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	v = &FirebaseVerifier{client: fakeIDTokenVerifier{token: &auth.Token{}}}
	_, err = v.Verify(ctx, "id-token")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestVerifierFunc(t *testing.T) {
	var v Verifier = VerifierFunc(func(_ context.Context, token string) (string, error) {
		return "sub-" + token, nil
	})
	sub, err := v.Verify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "sub-x", sub)
}
