// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	config         *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(db *gorm.DB, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: product.NewService(db, cfg),
		config:         cfg,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	// Storefront listing only shows active products; admins pass
	// include_inactive through the admin route.
	resp, err := h.productService.GetProducts(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
	})
}

// GetProduct handles GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	// Numeric path segments are treated as IDs for admin tooling
	if id, err := strconv.ParseUint(slug, 10, 32); err == nil {
		p, err := h.productService.GetProduct(uint(id))
		if err != nil {
			h.respondProductError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": p})
		return
	}

	p, err := h.productService.GetProductBySlug(slug)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": p,
	})
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.CreateProduct(&req)
	if err != nil {
		if errors.Is(err, product.ErrDuplicateSKU) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A product with this SKU already exists",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req product.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// AdjustStock handles PUT /admin/products/:id/stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		VariantID *uint `json:"variant_id"`
		Stock     int   `json:"stock" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.productService.AdjustStock(id, req.VariantID, req.Stock); err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
	})
}

// CreateVariant handles POST /admin/products/:id/variants
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req product.VariantCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.productService.CreateVariant(id, &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Variant created successfully",
		"data":    v,
	})
}

// DeleteVariant handles DELETE /admin/products/:id/variants/:variantId
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	if err := h.productService.DeleteVariant(id, variantID); err != nil {
		h.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted successfully",
	})
}

func (h *ProductHandler) respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, product.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
	case errors.Is(err, product.ErrDuplicateSKU):
		c.JSON(http.StatusConflict, gin.H{"error": "A product with this SKU already exists"})
	case errors.Is(err, product.ErrCategoryNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDParam parses a uint path parameter, writing the error response itself
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
