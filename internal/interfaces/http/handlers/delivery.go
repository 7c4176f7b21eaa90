// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// DeliveryHandler handles delivery cost endpoints
type DeliveryHandler struct {
	deliveryService *delivery.Service
	config          *config.Config
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(db *gorm.DB, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: delivery.NewService(db),
		config:          cfg,
	}
}

// GetCosts handles GET /delivery-costs
func (h *DeliveryHandler) GetCosts(c *gin.Context) {
	costs, err := h.deliveryService.GetCosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve delivery costs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": costs,
	})
}

// InitDefaults handles POST /admin/delivery-costs/init. Seeds any missing
// zone rows with their defaults; existing rows are never modified.
func (h *DeliveryHandler) InitDefaults(c *gin.Context) {
	if err := h.deliveryService.EnsureDefaults(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to seed delivery costs",
		})
		return
	}

	costs, err := h.deliveryService.GetCosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve delivery costs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery costs initialized",
		"data":    costs,
	})
}

// UpdateCost handles PUT /admin/delivery-costs/:zone
func (h *DeliveryHandler) UpdateCost(c *gin.Context) {
	zone := delivery.Zone(c.Param("zone"))
	if !zone.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown delivery zone",
		})
		return
	}

	var req delivery.UpdateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cost, err := h.deliveryService.UpdateCost(zone, &req)
	if err != nil {
		if errors.Is(err, delivery.ErrUnknownZone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown delivery zone"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery cost updated successfully",
		"data":    cost,
	})
}
