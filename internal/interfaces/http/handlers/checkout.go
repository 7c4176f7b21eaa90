// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"gorm.io/gorm"
)

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	cartService := cart.NewService(db, cfg)
	deliveryService := delivery.NewService(db)
	return &CheckoutHandler{
		orderService: order.NewService(db, cfg, cartService, deliveryService),
		config:       cfg,
	}
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	var req order.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.PlaceOrder(owner, &req)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data": gin.H{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"total_amount": o.TotalAmount,
			"currency":     o.Currency,
			"status":       o.Status,
		},
	})
}

// GetOrderByNumber handles GET /orders/:number for order confirmation pages
func (h *CheckoutHandler) GetOrderByNumber(c *gin.Context) {
	number := c.Param("number")

	o, err := h.orderService.GetOrderByNumber(number)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": o,
	})
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, order.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrUnknownZone):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown delivery zone"})
	case errors.Is(err, delivery.ErrCostNotConfigured):
		c.JSON(http.StatusConflict, gin.H{"error": "Delivery cost is not configured for this zone"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
	}
}
