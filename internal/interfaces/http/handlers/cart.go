// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// cartOwnerFromContext builds the cart owner for this request. A signed-in
// user owns their cart by user ID; everyone else by guest session.
func cartOwnerFromContext(c *gin.Context) (cart.Owner, bool) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return cart.Owner{UserID: &userID}, true
	}
	if sessionID, ok := middleware.GetGuestSessionIDFromContext(c); ok {
		return cart.Owner{GuestSessionID: &sessionID}, true
	}
	return cart.Owner{}, false
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	cartData, err := h.cartService.GetCart(owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.toResponse(cartData),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartData, err := h.cartService.AddItem(owner, &req)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.toResponse(cartData),
	})
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	variantID := parseVariantQuery(c)

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartData, err := h.cartService.UpdateItem(owner, productID, variantID, &req)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    h.toResponse(cartData),
	})
}

// RemoveCartItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	variantID := parseVariantQuery(c)

	cartData, err := h.cartService.RemoveItem(owner, productID, variantID)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    h.toResponse(cartData),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	owner, ok := cartOwnerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session established"})
		return
	}

	if err := h.cartService.Clear(owner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// CartResponse augments the stored cart with computed totals
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Subtotal  int64              `json:"subtotal"`
	ItemCount int                `json:"item_count"`
}

// CartItemResponse is a single cart line with its current pricing
type CartItemResponse struct {
	ProductID        uint                    `json:"product_id"`
	ProductVariantID *uint                   `json:"product_variant_id,omitempty"`
	Product          *product.Product        `json:"product,omitempty"`
	ProductVariant   *product.ProductVariant `json:"product_variant,omitempty"`
	Quantity         int                     `json:"quantity"`
	UnitPrice        int64                   `json:"unit_price"`
	LineTotal        int64                   `json:"line_total"`
}

func (h *CartHandler) toResponse(c *cart.Cart) CartResponse {
	resp := CartResponse{Items: []CartItemResponse{}}
	if c == nil {
		return resp
	}

	for i := range c.Items {
		item := &c.Items[i]
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Product:          item.Product,
			ProductVariant:   item.ProductVariant,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice(),
			LineTotal:        item.LineTotal(),
		})
		resp.ItemCount += item.Quantity
	}
	resp.Subtotal = cart.Subtotal(c.Items)

	return resp
}

func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound), errors.Is(err, product.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, cart.ErrProductInactive), errors.Is(err, cart.ErrVariantInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available"})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseVariantQuery(c *gin.Context) *uint {
	raw := c.Query("variant_id")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}
