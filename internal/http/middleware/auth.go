package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/domain"
)

const (
	userRoleKey    = "userRole"
	userSubjectKey = "userSubject"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(raw string) (domain.RequestContext, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's subject and role on the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing bearer token",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		rc, err := parser.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "invalid or expired token",
				"code":       "unauthorized",
				"reason":     domain.Reason(err),
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(userSubjectKey, rc.Subject)
		c.Set(userRoleKey, rc.Role)
		c.Next()
	}
}

// CurrentUser returns what RequireAuth stored, if anything.
func CurrentUser(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		Subject: c.GetString(userSubjectKey),
		Role:    c.GetString(userRoleKey),
	}
}
