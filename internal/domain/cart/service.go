// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Sentinel errors returned by the cart service.
var (
	ErrNoOwner         = errors.New("cart requires a user or guest session owner")
	ErrProductInactive = errors.New("product not found or inactive")
	ErrVariantInactive = errors.New("product variant not found or inactive")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// Owner identifies who a cart belongs to. Exactly one field must be set.
type Owner struct {
	UserID         *uint
	GuestSessionID *uint
}

// Valid reports whether exactly one owner reference is set
func (o Owner) Valid() bool {
	return (o.UserID == nil) != (o.GuestSessionID == nil)
}

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID        uint  `json:"product_id" binding:"required"`
	ProductVariantID *uint `json:"product_variant_id"`
	Quantity         int   `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateCartItemRequest represents update cart item request. A quantity
// below 1 removes the line, same end state as explicit removal.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart loads the owner's cart with items, products (including images)
// and variants. Absence is not an error: a missing cart returns (nil, nil).
func (s *Service) GetCart(owner Owner) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrNoOwner
	}

	var c Cart
	err := s.ownerScope(owner).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Items.ProductVariant").
		First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	return &c, nil
}

// AddItem adds a product (optionally a specific variant) to the owner's
// cart, creating the cart lazily on first use. Re-adding an existing
// (product, variant) combination increments its quantity, capped at 99.
func (s *Service) AddItem(owner Owner, req *AddToCartRequest) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrNoOwner
	}

	// Validate product exists and is active
	var prod product.Product
	result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod)
	if result.Error != nil {
		return nil, ErrProductInactive
	}

	// Validate variant if specified
	if req.ProductVariantID != nil {
		var variant product.ProductVariant
		result := s.db.Where("id = ? AND product_id = ? AND is_active = ?",
			*req.ProductVariantID, req.ProductID, true).First(&variant)
		if result.Error != nil {
			return nil, ErrVariantInactive
		}
	}

	c, err := s.getOrCreateCart(owner)
	if err != nil {
		return nil, err
	}

	var existing CartItem
	err = s.itemScope(c.ID, req.ProductID, req.ProductVariantID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item := CartItem{
			CartID:           c.ID,
			ProductID:        req.ProductID,
			ProductVariantID: req.ProductVariantID,
			Quantity:         clampQuantity(req.Quantity),
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	} else {
		existing.Quantity = clampQuantity(existing.Quantity + req.Quantity)
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(owner)
}

// UpdateItem sets the quantity of a cart line. A quantity below 1 removes
// the line entirely.
func (s *Service) UpdateItem(owner Owner, productID uint, variantID *uint, req *UpdateCartItemRequest) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrNoOwner
	}

	c, err := s.GetCart(owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrItemNotFound
	}

	if req.Quantity < MinQuantity {
		result := s.itemScope(c.ID, productID, variantID).Delete(&CartItem{})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrItemNotFound
		}
		return s.GetCart(owner)
	}

	result := s.itemScope(c.ID, productID, variantID).
		Model(&CartItem{}).
		Update("quantity", clampQuantity(req.Quantity))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	return s.GetCart(owner)
}

// RemoveItem removes a cart line; equivalent to updating its quantity to 0
func (s *Service) RemoveItem(owner Owner, productID uint, variantID *uint) (*Cart, error) {
	return s.UpdateItem(owner, productID, variantID, &UpdateCartItemRequest{Quantity: 0})
}

// Clear deletes all items from the owner's cart. Clearing a missing or
// already-empty cart is a no-op, not an error.
func (s *Service) Clear(owner Owner) error {
	if !owner.Valid() {
		return ErrNoOwner
	}

	var c Cart
	err := s.ownerScope(owner).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ItemCount returns the total quantity across the owner's cart lines
func (s *Service) ItemCount(owner Owner) (int, error) {
	c, err := s.GetCart(owner)
	if err != nil || c == nil {
		return 0, err
	}

	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count, nil
}

// Private helpers

func (s *Service) getOrCreateCart(owner Owner) (*Cart, error) {
	var c Cart
	err := s.ownerScope(owner).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up cart: %w", err)
	}

	c = Cart{
		UserID:         owner.UserID,
		GuestSessionID: owner.GuestSessionID,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

func (s *Service) ownerScope(owner Owner) *gorm.DB {
	if owner.UserID != nil {
		return s.db.Where("user_id = ?", *owner.UserID)
	}
	return s.db.Where("guest_session_id = ?", *owner.GuestSessionID)
}

func (s *Service) itemScope(cartID, productID uint, variantID *uint) *gorm.DB {
	query := s.db.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID != nil {
		return query.Where("product_variant_id = ?", *variantID)
	}
	return query.Where("product_variant_id IS NULL")
}

func clampQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	if q < MinQuantity {
		return MinQuantity
	}
	return q
}
