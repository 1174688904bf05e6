package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/common/auth"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
)

// Claim values copied onto the gin context for the forwarder.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
	EmailKey  = "email"
)

// JWTMiddleware rejects requests without a valid access token, read from the
// Authorization header or the "token" cookie.
func JWTMiddleware(parser *auth.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			_ = c.Error(apperrors.Unauthorized("Token is required"))
			c.Abort()
			return
		}

		claims, err := parser.Parse(tokenString, "access")
		if err != nil {
			_ = c.Error(apperrors.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			_ = c.Error(apperrors.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}
		c.Set(UserIDKey, sub)
		if role, ok := claims["role"].(string); ok {
			c.Set(RoleKey, role)
		}
		if email, ok := claims["email"].(string); ok {
			c.Set(EmailKey, email)
		}

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if !strings.HasPrefix(h, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if tok, err := c.Cookie("token"); err == nil {
		return strings.TrimSpace(tok)
	}
	return ""
}
