// internal/interfaces/http/handlers/banner.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/banner"
	"gorm.io/gorm"
)

// BannerHandler handles homepage banner endpoints
type BannerHandler struct {
	bannerService *banner.Service
	config        *config.Config
}

// NewBannerHandler creates a new banner handler
func NewBannerHandler(db *gorm.DB, cfg *config.Config) *BannerHandler {
	return &BannerHandler{
		bannerService: banner.NewService(db),
		config:        cfg,
	}
}

// GetBanners handles GET /banners
func (h *BannerHandler) GetBanners(c *gin.Context) {
	banners, err := h.bannerService.GetActiveBanners()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve banners",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": banners,
	})
}

// GetAllBanners handles GET /admin/banners
func (h *BannerHandler) GetAllBanners(c *gin.Context) {
	banners, err := h.bannerService.GetAllBanners()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve banners",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": banners,
	})
}

// CreateBanner handles POST /admin/banners
func (h *BannerHandler) CreateBanner(c *gin.Context) {
	var req banner.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bannerService.CreateBanner(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create banner",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Banner created successfully",
		"data":    b,
	})
}

// UpdateBanner handles PUT /admin/banners/:id
func (h *BannerHandler) UpdateBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req banner.UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bannerService.UpdateBanner(id, &req)
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Banner updated successfully",
		"data":    b,
	})
}

// DeleteBanner handles DELETE /admin/banners/:id
func (h *BannerHandler) DeleteBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bannerService.DeleteBanner(id); err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Banner deleted successfully",
	})
}
