package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/auth-service/controllers"
)

func RegisterPasswordRoutes(r *gin.Engine, pc *controllers.PasswordController) {
	auth := r.Group("/auth")
	{
		auth.POST("/forgot-password", pc.ForgotPassword)
		auth.POST("/reset-password", pc.ResetPassword)
	}
}
