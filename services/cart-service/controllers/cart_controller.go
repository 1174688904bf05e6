package controllers

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/commerce-backend/services/cart-service/services"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/middleware"
)

const (
	MsgUnauthorized      = "Unauthorized"
	MsgProductIDRequired = "Product ID is required"
	MsgInvalidQuantity   = "Valid quantity is required (must be a positive number)"
	MsgQuantityUpdated   = "Cart item quantity updated successfully"
)

type CartController struct {
	service services.ICartService
}

func NewCartController(service services.ICartService) *CartController {
	return &CartController{service: service}
}

// UpdateQuantityRequest keeps quantity untyped so strings, booleans and
// null can be told apart from numbers.
type UpdateQuantityRequest struct {
	Quantity interface{} `json:"quantity"`
}

// UpdateItemQuantity handles PATCH/PUT /cart/items/:productId.
func (cc *CartController) UpdateItemQuantity(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(MsgUnauthorized))
		return
	}

	productID := strings.TrimSpace(c.Param("productId"))
	if productID == "" {
		_ = c.Error(apperrors.BadRequest(MsgProductIDRequired))
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(MsgInvalidQuantity))
		return
	}
	quantity, ok := parseQuantity(req.Quantity)
	if !ok {
		_ = c.Error(apperrors.BadRequest(MsgInvalidQuantity))
		return
	}

	cart, err := cc.service.UpdateItemQuantity(c.Request.Context(), buyerID, productID, quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": MsgQuantityUpdated,
		"data":    gin.H{"cart": cart},
	})
}

// parseQuantity accepts only JSON numbers that are whole and at least 1.
func parseQuantity(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < 1 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
