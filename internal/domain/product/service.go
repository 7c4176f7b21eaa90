// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Sentinel errors returned by the product service.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrDuplicateSKU    = errors.New("sku already exists")
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsActive   *bool  `form:"is_active"`
	IsFeatured *bool  `form:"is_featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=1"`
	SalePrice   *int64 `json:"sale_price" binding:"omitempty,min=1"`
	Stock       int    `json:"stock" binding:"min=0"`
	HasVariants bool   `json:"has_variants"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	IsActive    bool   `json:"is_active"`
	IsFeatured  bool   `json:"is_featured"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,min=1"`
	SalePrice   *int64  `json:"sale_price"`
	ClearSale   bool    `json:"clear_sale"`
	Stock       *int    `json:"stock" binding:"omitempty,min=0"`
	HasVariants *bool   `json:"has_variants"`
	CategoryID  *uint   `json:"category_id"`
	IsActive    *bool   `json:"is_active"`
	IsFeatured  *bool   `json:"is_featured"`
}

// VariantCreateRequest represents variant creation data
type VariantCreateRequest struct {
	SKU       string `json:"sku" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=1"`
	SalePrice *int64 `json:"sale_price" binding:"omitempty,min=1"`
	Stock     int    `json:"stock" binding:"min=0"`
	IsActive  bool   `json:"is_active"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	// Build query
	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Variants", "is_active = ?", true)

	// Apply filters
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("COALESCE(sale_price, price) >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("COALESCE(sale_price, price) <= ?", req.MaxPrice)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var p Product
	result := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Variants", "is_active = ?", true).
		Where("id = ?", id).
		First(&p)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &p, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var p Product
	result := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Variants", "is_active = ?", true).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &p, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	// Check if SKU already exists
	var existing Product
	if result := s.db.Where("sku = ?", req.SKU).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, req.SKU)
	}

	p := Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Slug:        s.generateSlug(req.Name),
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		HasVariants: req.HasVariants,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
	}

	if err := s.db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.GetProduct(p.ID)
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var p Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.ClearSale {
		updates["sale_price"] = nil
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.HasVariants != nil {
		updates["has_variants"] = *req.HasVariants
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := s.db.Model(&p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock sets the stock level of a product or one of its variants
func (s *Service) AdjustStock(productID uint, variantID *uint, stock int) error {
	if variantID != nil {
		result := s.db.Model(&ProductVariant{}).
			Where("id = ? AND product_id = ?", *variantID, productID).
			Update("stock", stock)
		if result.Error != nil {
			return fmt.Errorf("failed to update variant stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrVariantNotFound
		}
		return nil
	}

	result := s.db.Model(&Product{}).
		Where("id = ?", productID).
		Update("stock", stock)
	if result.Error != nil {
		return fmt.Errorf("failed to update product stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CreateVariant adds a variant to a product and marks the product as
// variant-bearing.
func (s *Service) CreateVariant(productID uint, req *VariantCreateRequest) (*ProductVariant, error) {
	var p Product
	if err := s.db.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	var existing ProductVariant
	if result := s.db.Where("sku = ?", req.SKU).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, req.SKU)
	}

	variant := ProductVariant{
		ProductID: productID,
		SKU:       req.SKU,
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		IsActive:  req.IsActive,
	}

	if err := s.db.Create(&variant).Error; err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	if !p.HasVariants {
		if err := s.db.Model(&p).Update("has_variants", true).Error; err != nil {
			return nil, fmt.Errorf("failed to flag product as variant-bearing: %w", err)
		}
	}

	return &variant, nil
}

// DeleteVariant soft-deletes a product variant
func (s *Service) DeleteVariant(productID, variantID uint) error {
	result := s.db.Where("product_id = ?", productID).Delete(&ProductVariant{}, variantID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete variant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVariantNotFound
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug creates a URL-friendly slug from a product name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"name":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
