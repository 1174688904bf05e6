package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/api-gateway/middlewares"
	"github.com/shopswift/commerce-backend/api-gateway/proxy"
	"github.com/shopswift/commerce-backend/services/common/auth"
)

// Upstreams are the base URLs of the services behind the gateway.
type Upstreams struct {
	Auth string
	Cart string
}

func RegisterAllRoutes(r *gin.Engine, fwd *proxy.Forwarder, up Upstreams, parser *auth.TokenParser) {
	// ===== PUBLIC ROUTES =====
	authProxy := fwd.To(up.Auth)
	r.POST("/auth/forgot-password", authProxy)
	r.POST("/auth/reset-password", authProxy)

	// ===== PROTECTED ROUTES (JWT Required) =====
	protected := r.Group("/")
	protected.Use(middlewares.JWTMiddleware(parser))

	cart := fwd.To(up.Cart)
	protected.PATCH("/cart/items/:productId", cart)
	protected.PUT("/cart/items/:productId", cart)
}
