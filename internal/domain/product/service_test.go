package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}, &ProductImage{}, &ProductVariant{}))

	return NewService(db, &config.Config{}), db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *Category {
	t.Helper()
	cat := Category{Name: name, Slug: name, IsActive: true}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 10000}
	assert.Equal(t, int64(10000), p.EffectivePrice())

	p.SalePrice = int64Ptr(8000)
	assert.Equal(t, int64(8000), p.EffectivePrice())

	v := ProductVariant{Price: 5000}
	assert.Equal(t, int64(5000), v.EffectivePrice())

	v.SalePrice = int64Ptr(4500)
	assert.Equal(t, int64(4500), v.EffectivePrice())
}

func TestIsInStock(t *testing.T) {
	p := Product{Stock: 3}
	assert.True(t, p.IsInStock())

	p.Stock = 0
	assert.False(t, p.IsInStock())

	// With variants, the product's own stock field is ignored
	p.HasVariants = true
	p.Variants = []ProductVariant{
		{Stock: 0, IsActive: true},
		{Stock: 5, IsActive: false},
	}
	assert.False(t, p.IsInStock())

	p.Variants = append(p.Variants, ProductVariant{Stock: 2, IsActive: true})
	assert.True(t, p.IsInStock())
}

func TestPrimaryImage(t *testing.T) {
	p := Product{}
	assert.Equal(t, "", p.PrimaryImage())

	p.Images = []ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsPrimary: true},
	}
	assert.Equal(t, "b.jpg", p.PrimaryImage())

	p.Images[1].IsPrimary = false
	assert.Equal(t, "a.jpg", p.PrimaryImage())
}

func TestCreateProduct_GeneratesSlug(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	p, err := svc.CreateProduct(&ProductCreateRequest{
		SKU:        "SR-001",
		Name:       "Katan Silk Saree (Red & Gold)",
		Price:      120000,
		Stock:      10,
		CategoryID: cat.ID,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "katan-silk-saree-red-gold", p.Slug)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	req := &ProductCreateRequest{
		SKU:        "SR-001",
		Name:       "First",
		Price:      1000,
		CategoryID: cat.ID,
		IsActive:   true,
	}
	_, err := svc.CreateProduct(req)
	require.NoError(t, err)

	req.Name = "Second"
	_, err = svc.CreateProduct(req)
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestUpdateProduct_ClearSale(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	p, err := svc.CreateProduct(&ProductCreateRequest{
		SKU:        "SR-001",
		Name:       "Saree",
		Price:      120000,
		SalePrice:  int64Ptr(95000),
		CategoryID: cat.ID,
		IsActive:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, p.SalePrice)

	p, err = svc.UpdateProduct(p.ID, &ProductUpdateRequest{ClearSale: true})
	require.NoError(t, err)
	assert.Nil(t, p.SalePrice)
	assert.Equal(t, int64(120000), p.EffectivePrice())
}

func TestGetProducts_Filters(t *testing.T) {
	svc, db := setupTestService(t)
	cat1 := seedCategory(t, db, "sarees")
	cat2 := seedCategory(t, db, "accessories")

	_, err := svc.CreateProduct(&ProductCreateRequest{
		SKU: "SR-001", Name: "Silk Saree", Price: 120000, SalePrice: int64Ptr(95000),
		CategoryID: cat1.ID, IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&ProductCreateRequest{
		SKU: "AC-001", Name: "Bangle Set", Price: 20000,
		CategoryID: cat2.ID, IsActive: true, IsFeatured: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&ProductCreateRequest{
		SKU: "AC-002", Name: "Hidden Necklace", Price: 30000,
		CategoryID: cat2.ID, IsActive: false,
	})
	require.NoError(t, err)

	resp, err := svc.GetProducts(&ProductListRequest{CategoryID: cat2.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)

	resp, err = svc.GetProducts(&ProductListRequest{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)

	resp, err = svc.GetProducts(&ProductListRequest{IsFeatured: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "AC-001", resp.Products[0].SKU)

	resp, err = svc.GetProducts(&ProductListRequest{Search: "saree"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "SR-001", resp.Products[0].SKU)

	// Price filters apply to the effective (sale-aware) price
	resp, err = svc.GetProducts(&ProductListRequest{MaxPrice: 95000})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 3)
}

func TestAdjustStock(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	p, err := svc.CreateProduct(&ProductCreateRequest{
		SKU: "SR-001", Name: "Saree", Price: 1000, Stock: 5,
		CategoryID: cat.ID, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustStock(p.ID, nil, 42))

	got, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Stock)

	assert.ErrorIs(t, svc.AdjustStock(999, nil, 1), ErrProductNotFound)
}

func TestCreateVariant_FlagsProduct(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	p, err := svc.CreateProduct(&ProductCreateRequest{
		SKU: "SR-001", Name: "Saree", Price: 1000,
		CategoryID: cat.ID, IsActive: true,
	})
	require.NoError(t, err)
	assert.False(t, p.HasVariants)

	v, err := svc.CreateVariant(p.ID, &VariantCreateRequest{
		SKU: "SR-001-R", Name: "Red", Price: 1200, Stock: 3, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, v.ProductID)

	got, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasVariants)
}

func TestDeleteProduct(t *testing.T) {
	svc, db := setupTestService(t)
	cat := seedCategory(t, db, "sarees")

	p, err := svc.CreateProduct(&ProductCreateRequest{
		SKU: "SR-001", Name: "Saree", Price: 1000,
		CategoryID: cat.ID, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(p.ID))
	_, err = svc.GetProduct(p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(p.ID), ErrProductNotFound)
}
