// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/banner"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&user.User{},
		&session.GuestSession{},
		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},
		&banner.Banner{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&delivery.DeliveryCost{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// createIndexes creates additional indexes the struct tags don't express
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured) WHERE is_featured = true",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_guest_sessions_expires ON guest_sessions(expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_carts_guest_session ON carts(guest_session_id) WHERE guest_session_id IS NOT NULL",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData seeds the database with initial data
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding initial data...")

	if err := seedAdminUser(db, cfg); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	deliveryService := delivery.NewService(db)
	if err := deliveryService.EnsureDefaults(); err != nil {
		return fmt.Errorf("failed to seed delivery costs: %w", err)
	}

	if cfg.IsDevelopment() {
		if err := seedSampleCatalog(db); err != nil {
			return fmt.Errorf("failed to seed sample catalog: %w", err)
		}
	}

	log.Println("Initial data seeded successfully")
	return nil
}

func seedAdminUser(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(cfg.Security.AdminPassword)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:     cfg.Security.AdminEmail,
		Password:  hashed,
		FirstName: "Store",
		LastName:  "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}

	return db.Create(&admin).Error
}

// seedSampleCatalog creates a small catalog for local development
func seedSampleCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&product.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []product.Category{
		{Name: "Sarees", Slug: "sarees", Description: "Traditional and designer sarees", IsActive: true, SortOrder: 1},
		{Name: "Three Piece", Slug: "three-piece", Description: "Unstitched three piece sets", IsActive: true, SortOrder: 2},
		{Name: "Accessories", Slug: "accessories", Description: "Jewellery and accessories", IsActive: true, SortOrder: 3},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	salePrice := int64(95000)
	products := []product.Product{
		{
			SKU:         "SR-0001",
			Name:        "Katan Silk Saree",
			Slug:        "katan-silk-saree",
			Description: "Handwoven katan silk saree with zari border",
			Price:       120000,
			SalePrice:   &salePrice,
			Stock:       25,
			CategoryID:  categories[0].ID,
			IsActive:    true,
			IsFeatured:  true,
		},
		{
			SKU:         "TP-0001",
			Name:        "Embroidered Three Piece",
			Slug:        "embroidered-three-piece",
			Description: "Cotton three piece with karchupi work",
			Price:       80000,
			Stock:       40,
			CategoryID:  categories[1].ID,
			IsActive:    true,
		},
	}
	return db.Create(&products).Error
}
