package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/auth-service/services"
	"github.com/shopswift/commerce-backend/services/auth-service/types"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
)

type PasswordController struct {
	service services.IPasswordResetService
}

func NewPasswordController(service services.IPasswordResetService) *PasswordController {
	return &PasswordController{service: service}
}

// ForgotPassword handles POST /auth/forgot-password.
func (pc *PasswordController) ForgotPassword(c *gin.Context) {
	var req types.ForgotPasswordRequest
	if err := apperrors.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := pc.service.RequestReset(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: services.MsgResetCodeSent})
}

// ResetPassword handles POST /auth/reset-password.
func (pc *PasswordController) ResetPassword(c *gin.Context) {
	var req types.ResetPasswordRequest
	if err := apperrors.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := pc.service.CompleteReset(c.Request.Context(), req.Email, req.Token, req.Password); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: services.MsgPasswordReset})
}
