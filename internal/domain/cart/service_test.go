package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductVariant{},
		&Cart{},
		&CartItem{},
	))

	cfg := &config.Config{}
	return NewService(db, cfg), db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, price int64, active bool) *product.Product {
	t.Helper()

	cat := product.Category{Name: "Test", Slug: "test-" + sku, IsActive: true}
	require.NoError(t, db.Create(&cat).Error)

	p := product.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		Slug:       "product-" + sku,
		Price:      price,
		Stock:      100,
		CategoryID: cat.ID,
		IsActive:   active,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func guestOwner(id uint) Owner {
	return Owner{GuestSessionID: &id}
}

func TestOwnerValid(t *testing.T) {
	uid := uint(1)
	sid := uint(2)

	assert.False(t, Owner{}.Valid())
	assert.True(t, Owner{UserID: &uid}.Valid())
	assert.True(t, Owner{GuestSessionID: &sid}.Valid())
	assert.False(t, Owner{UserID: &uid, GuestSessionID: &sid}.Valid())
}

func TestGetCart_MissingCartIsNotAnError(t *testing.T) {
	svc, _ := setupTestService(t)

	c, err := svc.GetCart(guestOwner(1))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)

	c, err := svc.AddItem(guestOwner(1), &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddItem_MergesSameLine(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)
	owner := guestOwner(1)

	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItem_MergeCapsAtMaxQuantity(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)
	owner := guestOwner(1)

	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 60})
	require.NoError(t, err)

	c, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 60})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
}

func TestAddItem_VariantLinesAreDistinct(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)

	v := product.ProductVariant{ProductID: p.ID, SKU: "SKU-1-L", Name: "Large", Price: 5000, Stock: 10, IsActive: true}
	require.NoError(t, db.Create(&v).Error)

	owner := guestOwner(1)
	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	c, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, ProductVariantID: &v.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestAddItem_InactiveProductRejected(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, false)

	_, err := svc.AddItem(guestOwner(1), &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestAddItem_UnknownProductRejected(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.AddItem(guestOwner(1), &AddToCartRequest{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestUpdateItem_QuantityBelowOneRemovesLine(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)
	owner := guestOwner(1)

	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.UpdateItem(owner, p.ID, nil, &UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// Same end state as explicit removal
	_, err = svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	c, err = svc.RemoveItem(owner, p.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestUpdateItem_MissingLine(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)
	owner := guestOwner(1)

	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItem(owner, 999, nil, &UpdateCartItemRequest{Quantity: 5})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClear_IsIdempotent(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)
	owner := guestOwner(1)

	// Clearing a cart that never existed succeeds
	require.NoError(t, svc.Clear(owner))

	_, err := svc.AddItem(owner, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(owner))
	require.NoError(t, svc.Clear(owner))

	c, err := svc.GetCart(owner)
	require.NoError(t, err)
	if c != nil {
		assert.Empty(t, c.Items)
	}
}

func TestCartsAreScopedToOwner(t *testing.T) {
	svc, db := setupTestService(t)
	p := seedProduct(t, db, "SKU-1", 4000, true)

	_, err := svc.AddItem(guestOwner(1), &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.GetCart(guestOwner(2))
	require.NoError(t, err)
	assert.Nil(t, c)

	uid := uint(1)
	c, err = svc.GetCart(Owner{UserID: &uid})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestItemCount(t *testing.T) {
	svc, db := setupTestService(t)
	p1 := seedProduct(t, db, "SKU-1", 4000, true)
	p2 := seedProduct(t, db, "SKU-2", 8000, true)
	owner := guestOwner(1)

	count, err := svc.ItemCount(owner)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.AddItem(owner, &AddToCartRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(owner, &AddToCartRequest{ProductID: p2.ID, Quantity: 1})
	require.NoError(t, err)

	count, err = svc.ItemCount(owner)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
