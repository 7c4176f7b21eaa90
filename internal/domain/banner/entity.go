// internal/domain/banner/entity.go
package banner

import (
	"time"

	"gorm.io/gorm"
)

// Banner represents a storefront promotional banner
type Banner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255" json:"title"`
	Image     string         `gorm:"not null;size:500" json:"image"`
	Link      string         `gorm:"size:500" json:"link"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Banner
func (Banner) TableName() string { return "banners" }
