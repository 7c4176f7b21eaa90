// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles admin order management endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config) *OrderHandler {
	cartService := cart.NewService(db, cfg)
	deliveryService := delivery.NewService(db)
	return &OrderHandler{
		orderService: order.NewService(db, cfg, cartService, deliveryService),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// GetOrders handles GET /admin/orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": o,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status order.OrderStatus `json:"status" binding:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// CancelOrder handles PUT /admin/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.CancelOrder(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    o,
	})
}

// DownloadInvoice handles GET /admin/orders/:id/invoice
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	buf, err := h.pdfService.GenerateInvoice(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, order.ErrInvalidStatusTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrOrderCannotBeCancelled):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
