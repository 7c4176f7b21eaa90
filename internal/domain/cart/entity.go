// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Cart is owned by exactly one guest session or one user, never both.
type Cart struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         *uint     `gorm:"index" json:"user_id,omitempty"`
	GuestSessionID *uint     `gorm:"index" json:"guest_session_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is unique per (cart, product, variant); adding the same
// combination again merges quantities instead of duplicating the row.
type CartItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CartID           uint      `gorm:"not null;index;uniqueIndex:idx_cart_product_variant" json:"cart_id"`
	ProductID        uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`
	ProductVariantID *uint     `gorm:"uniqueIndex:idx_cart_product_variant" json:"product_variant_id,omitempty"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Product        *product.Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductVariant *product.ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// HasOneOwner reports whether exactly one owner reference is set
func (c *Cart) HasOneOwner() bool {
	return (c.UserID == nil) != (c.GuestSessionID == nil)
}
