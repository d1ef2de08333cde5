// README: Session middleware; resolves the caller from a bearer token or the sb-access-token cookie.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tabihi/internal/infra"
	"tabihi/internal/types"
)

const (
	callerUIDKey  = "caller_uid"
	sessionCookie = "sb-access-token"
)

// Auth rejects requests without a valid session.
func Auth(v infra.SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		uid, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(callerUIDKey, uid)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token that fails validation.
func OptionalAuth(v infra.SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.Next()
			return
		}
		uid, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(callerUIDKey, uid)
		c.Next()
	}
}

// CallerUID returns the authenticated user, or "" for anonymous requests.
func CallerUID(c *gin.Context) types.ID {
	v, _ := c.Get(callerUIDKey)
	uid, _ := v.(types.ID)
	return uid
}

func sessionToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		return token, token != ""
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
