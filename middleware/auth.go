package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/models"
	"meeting-room-backend/services"
	"meeting-room-backend/utils"
)

// Gin context keys set by Auth.
const (
	ContextIdentity = "identity"
	ContextToken    = "auth_token"
)

// Auth validates the Bearer token and stores the caller's identity in the
// context. The raw token is kept too so handlers can forward it to the other
// services.
func Auth(jwtSecret string, log *logrus.Logger) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, ok := extractBearer(c)
		if !ok {
			log.WithField("path", c.Request.URL.Path).Warn("missing or malformed Authorization header")
			utils.JSONError(c, http.StatusUnauthorized, "authorization required")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenStr, jwtSecret)
		if err != nil {
			log.WithError(err).Warn("token rejected")
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextIdentity, services.Identity{UserID: claims.UserID, Role: claims.Role})
		c.Set(ContextToken, tokenStr)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "authorization required")
			c.Abort()
			return
		}
		if !allowed[identity.Role] {
			utils.JSONError(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin is shorthand for the admin-only route groups.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// IdentityFrom returns the authenticated caller set by Auth.
func IdentityFrom(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return services.Identity{}, false
	}
	identity, ok := v.(services.Identity)
	return identity, ok
}

// TokenFrom returns the raw Bearer token set by Auth.
func TokenFrom(c *gin.Context) string {
	return c.GetString(ContextToken)
}

func extractBearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
