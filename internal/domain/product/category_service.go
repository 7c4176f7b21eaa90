// internal/domain/product/category_service.go
package product

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category lookup fails.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// GetCategories retrieves all active categories ordered for display
func (s *Service) GetCategories() ([]Category, error) {
	var categories []Category
	err := s.db.Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetAllCategories retrieves every category, including inactive ones (admin)
func (s *Service) GetAllCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	category := Category{
		Name:        req.Name,
		Slug:        s.generateSlug(req.Name),
		Description: req.Description,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// UpdateCategory updates an existing category
func (s *Service) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	return &category, nil
}

// DeleteCategory soft-deletes a category
func (s *Service) DeleteCategory(id uint) error {
	result := s.db.Delete(&Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
