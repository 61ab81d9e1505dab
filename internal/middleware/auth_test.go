package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/pkg/i18n"
	"github.com/getyourdepa/depa-cms/pkg/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminUID = "admin-uid"

// tokens maps bearer tokens to subjects; anything else fails verification.
func fakeVerifier(tokens map[string]string) identity.Verifier {
	return identity.VerifierFunc(func(_ context.Context, token string) (string, error) {
		if sub, ok := tokens[token]; ok {
			return sub, nil
		}
		return "", identity.ErrInvalidToken
	})
}

func testGate() *Gate {
	return NewGate(fakeVerifier(map[string]string{
		"admin-token": adminUID,
		"user-token":  "someone-else",
	}), adminUID)
}

func TestGate_Authorize(t *testing.T) {
	gate := testGate()
	ctx := context.Background()

	tests := []struct {
		name       string
		header     string
		authorized bool
		status     int
		key        string
	}{
		{"no header", "", false, http.StatusUnauthorized, MsgTokenMissing},
		{"wrong scheme", "Basic admin-token", false, http.StatusUnauthorized, MsgTokenMissing},
		{"lowercase scheme", "bearer admin-token", false, http.StatusUnauthorized, MsgTokenMissing},
		{"empty token", "Bearer ", false, http.StatusUnauthorized, MsgTokenMissing},
		{"extra parts", "Bearer admin-token extra", false, http.StatusUnauthorized, MsgTokenMissing},
		{"unknown token", "Bearer forged", false, http.StatusUnauthorized, MsgTokenInvalid},
		{"valid non-admin", "Bearer user-token", false, http.StatusForbidden, MsgForbidden},
		{"admin", "Bearer admin-token", true, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Authorize(ctx, tt.header)
			assert.Equal(t, tt.authorized, d.Authorized)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.key, d.MessageKey)
		})
	}
}

func TestGate_VerifierErrorIsKeptAsReason(t *testing.T) {
	boom := errors.New("jwks unreachable")
	gate := NewGate(identity.VerifierFunc(func(context.Context, string) (string, error) {
		return "", boom
	}), adminUID)

	d := gate.Authorize(context.Background(), "Bearer x")
	assert.False(t, d.Authorized)
	assert.ErrorIs(t, d.Reason, boom)
	assert.ErrorIs(t, d.Reason, common.ErrUnauthorized)
}

func TestGate_EmptyAdminUIDDeniesEveryone(t *testing.T) {
	gate := NewGate(fakeVerifier(map[string]string{"t": ""}), "")
	d := gate.Authorize(context.Background(), "Bearer t")
	assert.False(t, d.Authorized)
	assert.Equal(t, http.StatusForbidden, d.Status)
	assert.ErrorIs(t, d.Reason, common.ErrForbidden)
}

func newAdminRouter(gate *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(I18n(i18n.Default()))
	r.Use(AdminOnly(gate))
	r.GET("/api/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": GetUID(c)})
	})
	return r
}

func TestAdminOnly(t *testing.T) {
	r := newAdminRouter(testGate())

	t.Run("missing header is 401 with Spanish message", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/blog", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		var resp common.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
		assert.Equal(t, "No autorizado: Token no proporcionado.", resp.Error.Message)
	})

	t.Run("non-admin is 403 in English", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/blog", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
		var resp common.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Forbidden: You do not have permission for this operation.", resp.Error.Message)
	})

	t.Run("admin passes and uid is set", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/blog", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":"admin-uid"}`, w.Body.String())
	})
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(nil, DefaultRateLimitConfig()))
	r.GET("/r/:key", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/r/abc123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	var seen string
	r.GET("/health", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Len(t, seen, 8)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req.Header.Set("X-Request-ID", "upstream-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", seen)
}
