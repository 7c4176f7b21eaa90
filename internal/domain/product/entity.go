// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"` // Base price in poisha
	SalePrice   *int64         `json:"sale_price"`            // Discounted price, nil when not on sale
	Stock       int            `gorm:"default:0" json:"stock"`
	HasVariants bool           `gorm:"default:false" json:"has_variants"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsFeatured  bool           `gorm:"default:false" json:"is_featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category         `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// Category represents product categories
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	Image       string         `gorm:"size:500" json:"image"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductVariant represents a purchasable configuration of a product
// (size, color, etc.) with its own price and stock.
type ProductVariant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	SKU       string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Price     int64          `gorm:"not null" json:"price"` // Variant price in poisha, final (never combined with product sale price)
	SalePrice *int64         `json:"sale_price"`
	Stock     int            `gorm:"default:0" json:"stock"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (Category) TableName() string       { return "categories" }
func (ProductImage) TableName() string   { return "product_images" }
func (ProductVariant) TableName() string { return "product_variants" }

// EffectivePrice returns the unit price a buyer pays for the product
// itself: sale price when set, base price otherwise.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// EffectivePrice returns the unit price for this variant: the variant's
// own sale price when set, its base price otherwise. The parent product's
// pricing never participates.
func (v *ProductVariant) EffectivePrice() int64 {
	if v.SalePrice != nil {
		return *v.SalePrice
	}
	return v.Price
}

// IsInStock reports whether the product is purchasable. When the product
// has variants, its own stock field is not authoritative.
func (p *Product) IsInStock() bool {
	if p.HasVariants {
		for _, v := range p.Variants {
			if v.IsActive && v.Stock > 0 {
				return true
			}
		}
		return false
	}
	return p.Stock > 0
}

// PrimaryImage returns the URL of the primary image, or the first image
// when none is marked primary.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// GetDisplayPrice returns the effective price as a float for display
func (p *Product) GetDisplayPrice() float64 {
	return float64(p.EffectivePrice()) / 100
}
