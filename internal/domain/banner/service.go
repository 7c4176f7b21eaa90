// internal/domain/banner/service.go
package banner

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrBannerNotFound is returned when a banner lookup fails.
var ErrBannerNotFound = errors.New("banner not found")

// Service handles banner business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new banner service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateBannerRequest represents banner creation data
type CreateBannerRequest struct {
	Title     string `json:"title"`
	Image     string `json:"image" binding:"required"`
	Link      string `json:"link"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// UpdateBannerRequest represents banner update data
type UpdateBannerRequest struct {
	Title     *string `json:"title"`
	Image     *string `json:"image"`
	Link      *string `json:"link"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// GetActiveBanners returns active banners in display order
func (s *Service) GetActiveBanners() ([]Banner, error) {
	var banners []Banner
	err := s.db.Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&banners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve banners: %w", err)
	}
	return banners, nil
}

// GetAllBanners returns every banner, including inactive ones (admin)
func (s *Service) GetAllBanners() ([]Banner, error) {
	var banners []Banner
	if err := s.db.Order("sort_order ASC, id ASC").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve banners: %w", err)
	}
	return banners, nil
}

// CreateBanner creates a new banner
func (s *Service) CreateBanner(req *CreateBannerRequest) (*Banner, error) {
	b := Banner{
		Title:     req.Title,
		Image:     req.Image,
		Link:      req.Link,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	return &b, nil
}

// UpdateBanner updates an existing banner
func (s *Service) UpdateBanner(id uint, req *UpdateBannerRequest) (*Banner, error) {
	var b Banner
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("failed to retrieve banner: %w", err)
	}

	updates := map[string]interface{}{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&b).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update banner: %w", err)
		}
	}

	return &b, nil
}

// DeleteBanner soft-deletes a banner
func (s *Service) DeleteBanner(id uint) error {
	result := s.db.Delete(&Banner{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete banner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBannerNotFound
	}
	return nil
}
