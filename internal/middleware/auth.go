package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/pkg/identity"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	uidKey = "uid"

	MsgTokenMissing = "auth.token_missing"
	MsgTokenInvalid = "auth.token_invalid"
	MsgForbidden    = "auth.forbidden"
)

// Decision is the outcome of checking one Authorization header.
type Decision struct {
	Authorized bool
	SubjectID  string
	Status     int
	MessageKey string
	// Reason wraps common.ErrUnauthorized or common.ErrForbidden. It is
	// logged, never returned to the client.
	Reason error
}

// Gate admits only the single configured admin subject.
type Gate struct {
	verifier identity.Verifier
	adminUID string
}

func NewGate(verifier identity.Verifier, adminUID string) *Gate {
	return &Gate{verifier: verifier, adminUID: adminUID}
}

// Authorize evaluates header on every call; nothing is cached.
func (g *Gate) Authorize(ctx context.Context, header string) Decision {
	token, ok := bearerToken(header)
	if !ok {
		return Decision{Status: http.StatusUnauthorized, MessageKey: MsgTokenMissing, Reason: common.ErrUnauthorized}
	}

	subject, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return Decision{
			Status:     http.StatusUnauthorized,
			MessageKey: MsgTokenInvalid,
			Reason:     fmt.Errorf("%w: %w", common.ErrUnauthorized, err),
		}
	}

	if g.adminUID == "" || subject != g.adminUID {
		return Decision{SubjectID: subject, Status: http.StatusForbidden, MessageKey: MsgForbidden, Reason: common.ErrForbidden}
	}

	return Decision{Authorized: true, SubjectID: subject, Status: http.StatusOK}
}

// bearerToken accepts exactly "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AdminOnly aborts every request that the gate does not authorize and
// stores the subject id under "uid" otherwise.
func AdminOnly(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := gate.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		recordAuthDecision(d)

		if !d.Authorized {
			event := pkglogger.GetLogger().Warn().
				Str("request_id", GetRequestID(c)).
				Str("path", c.Request.URL.Path).
				Int("status", d.Status).
				Str("subject", d.SubjectID)
			if d.Reason != nil {
				event = event.Err(d.Reason)
			}
			event.Msg("access denied")

			common.AbortWithError(c, d.Status, T(c, d.MessageKey), nil)
			return
		}

		c.Set(uidKey, d.SubjectID)
		c.Next()
	}
}

// GetUID returns the authorized subject id, or "" outside AdminOnly.
func GetUID(c *gin.Context) string {
	return c.GetString(uidKey)
}
