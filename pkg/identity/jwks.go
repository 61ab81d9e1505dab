package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSConfig configures verification of OIDC provider tokens.
type JWKSConfig struct {
	URL             string
	Issuer          string
	Audience        string
	Leeway          time.Duration
	RefreshInterval time.Duration
	ClientTimeout   time.Duration
}

// JWKSVerifier verifies RS256/ES256 tokens against a JWK Set.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
	leeway   time.Duration
}

// NewJWKSVerifier fetches the JWK Set from cfg.URL and refreshes it in the
// background. Startup does not fail if the provider is briefly unreachable.
func NewJWKSVerifier(cfg JWKSConfig) (*JWKSVerifier, error) {
	timeout := cfg.ClientTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.URL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: timeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			pkglogger.GetLogger().Error().
				Err(err).
				Str("url", cfg.URL).
				Msg("JWKS refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("create keyfunc: %w", err)
	}

	return NewJWKSVerifierWithKeyfunc(k, cfg), nil
}

// NewJWKSVerifierWithKeyfunc builds a verifier around an existing keyfunc.
func NewJWKSVerifierWithKeyfunc(k keyfunc.Keyfunc, cfg JWKSConfig) *JWKSVerifier {
	return &JWKSVerifier{
		jwks:     k,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   cfg.Leeway,
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.KeyfuncCtx(ctx), opts...)
	if err != nil {
		return "", classify(err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
