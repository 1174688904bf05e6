package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/cart-service/controllers"
	"github.com/shopswift/commerce-backend/services/common/auth"
	"github.com/shopswift/commerce-backend/services/common/middleware"
)

func RegisterCartRoutes(r *gin.Engine, controller *controllers.CartController, parser *auth.TokenParser) {
	api := r.Group("/cart")
	api.Use(middleware.IdentityMiddleware(parser))
	{
		api.PATCH("/items/:productId", controller.UpdateItemQuantity)
		api.PUT("/items/:productId", controller.UpdateItemQuantity)
	}
}
