package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/common/auth"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// IdentityMiddleware resolves the caller and stores it on the context. The
// gateway forwards X-User-ID; direct callers must present a signed access
// token (Bearer header or "token" cookie).
//
// It never aborts: handlers decide whether an anonymous request is allowed.
func IdentityMiddleware(parser *auth.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("X-User-ID")); id != "" {
			c.Set(UserContextKey, id)
			if role := c.GetHeader("X-User-Role"); role != "" {
				c.Set(RoleContextKey, role)
			}
			c.Next()
			return
		}

		if tokenStr := bearerToken(c); tokenStr != "" && parser != nil {
			if claims, err := parser.Parse(tokenStr, "access"); err == nil {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					c.Set(UserContextKey, sub)
				}
				if role, ok := claims["role"].(string); ok {
					c.Set(RoleContextKey, role)
				}
				if email, ok := claims["email"].(string); ok {
					c.Set(EmailContextKey, email)
				}
			}
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if tok, err := c.Cookie("token"); err == nil {
		return tok
	}
	return ""
}

// GetUserID returns the resolved caller, if any.
func GetUserID(c *gin.Context) (string, bool) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}
