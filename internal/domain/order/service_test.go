package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	orders   *Service
	carts    *cart.Service
	delivery *delivery.Service
}

func setupTestEnv(t *testing.T) *testEnv {
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
		&cart.Cart{},
		&cart.CartItem{},
		&Order{},
		&OrderItem{},
		&delivery.DeliveryCost{},
	))

	cfg := &config.Config{}
	cfg.Store.Currency = "BDT"

	cartService := cart.NewService(db, cfg)
	deliveryService := delivery.NewService(db)
	require.NoError(t, deliveryService.EnsureDefaults())

	return &testEnv{
		db:       db,
		orders:   NewService(db, cfg, cartService, deliveryService),
		carts:    cartService,
		delivery: deliveryService,
	}
}

func (e *testEnv) seedProduct(t *testing.T, sku string, price int64, stock int) *product.Product {
	t.Helper()

	cat := product.Category{Name: "Test " + sku, Slug: "test-" + sku, IsActive: true}
	require.NoError(t, e.db.Create(&cat).Error)

	p := product.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		Slug:       "product-" + sku,
		Price:      price,
		Stock:      stock,
		CategoryID: cat.ID,
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(&p).Error)
	return &p
}

func (e *testEnv) productStock(t *testing.T, id uint) int {
	t.Helper()
	var p product.Product
	require.NoError(t, e.db.First(&p, id).Error)
	return p.Stock
}

func guestOwner(id uint) cart.Owner {
	return cart.Owner{GuestSessionID: &id}
}

func placeOrderRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerName:    "Nusrat Jahan",
		CustomerMobile:  "01712345678",
		CustomerAddress: "House 12, Road 5, Dhanmondi, Dhaka",
		DeliveryZone:    delivery.ZoneInsideDhaka,
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.orders.PlaceOrder(guestOwner(1), placeOrderRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_ComputesTotals(t *testing.T) {
	env := setupTestEnv(t)
	owner := guestOwner(1)

	p1 := env.seedProduct(t, "SKU-1", 4000, 50)
	p2 := env.seedProduct(t, "SKU-2", 4000, 50)

	_, err := env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p2.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := env.orders.PlaceOrder(owner, placeOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(12000), o.SubtotalAmount)
	assert.Equal(t, int64(6000), o.DeliveryAmount)
	assert.Equal(t, int64(18000), o.TotalAmount)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, "BDT", o.Currency)
	assert.NotEmpty(t, o.OrderNumber)
	assert.Regexp(t, `^ORD-\d{8}-\d{5}$`, o.OrderNumber)

	require.Len(t, o.Items, 2)
	byName := map[string]OrderItem{}
	for _, item := range o.Items {
		byName[item.ProductName] = item
	}
	assert.Equal(t, int64(4000), byName["Product SKU-1"].UnitPrice)
	assert.Equal(t, int64(8000), byName["Product SKU-1"].TotalPrice)
	assert.Equal(t, int64(4000), byName["Product SKU-2"].TotalPrice)

	// Stock was reserved
	assert.Equal(t, 48, env.productStock(t, p1.ID))
	assert.Equal(t, 49, env.productStock(t, p2.ID))

	// Cart was cleared after commit
	c, err := env.carts.GetCart(owner)
	require.NoError(t, err)
	if c != nil {
		assert.Empty(t, c.Items)
	}
}

func TestPlaceOrder_SnapshotsSurviveCatalogChanges(t *testing.T) {
	env := setupTestEnv(t)
	owner := guestOwner(1)

	p := env.seedProduct(t, "SKU-1", 4000, 50)
	_, err := env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := env.orders.PlaceOrder(owner, placeOrderRequest())
	require.NoError(t, err)

	// Reprice and rename the product after the sale
	require.NoError(t, env.db.Model(&product.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"name": "Renamed", "price": 99999}).Error)

	got, err := env.orders.GetOrder(o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Product SKU-1", got.Items[0].ProductName)
	assert.Equal(t, int64(4000), got.Items[0].UnitPrice)
}

func TestPlaceOrder_VariantLineUsesVariantPricing(t *testing.T) {
	env := setupTestEnv(t)
	owner := guestOwner(1)

	sale := int64(7000)
	p := env.seedProduct(t, "SKU-1", 4000, 50)
	v := product.ProductVariant{
		ProductID: p.ID,
		SKU:       "SKU-1-XL",
		Name:      "Extra Large",
		Price:     9000,
		SalePrice: &sale,
		Stock:     10,
		IsActive:  true,
	}
	require.NoError(t, env.db.Create(&v).Error)

	_, err := env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p.ID, ProductVariantID: &v.ID, Quantity: 2})
	require.NoError(t, err)

	o, err := env.orders.PlaceOrder(owner, placeOrderRequest())
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "SKU-1-XL", o.Items[0].SKU)
	assert.Equal(t, "Extra Large", o.Items[0].VariantName)
	assert.Equal(t, int64(7000), o.Items[0].UnitPrice)
	assert.Equal(t, int64(14000), o.Items[0].TotalPrice)

	// Variant stock decremented, product stock untouched
	var gotVariant product.ProductVariant
	require.NoError(t, env.db.First(&gotVariant, v.ID).Error)
	assert.Equal(t, 8, gotVariant.Stock)
	assert.Equal(t, 50, env.productStock(t, p.ID))
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	env := setupTestEnv(t)
	owner := guestOwner(1)

	p1 := env.seedProduct(t, "SKU-1", 4000, 50)
	p2 := env.seedProduct(t, "SKU-2", 4000, 1)

	_, err := env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p2.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = env.orders.PlaceOrder(owner, placeOrderRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing committed: no orders, no items, first product's stock intact
	var orderCount, itemCount int64
	require.NoError(t, env.db.Model(&Order{}).Count(&orderCount).Error)
	require.NoError(t, env.db.Model(&OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Equal(t, 50, env.productStock(t, p1.ID))
	assert.Equal(t, 1, env.productStock(t, p2.ID))

	// The cart is untouched so the shopper can adjust and retry
	c, err := env.carts.GetCart(owner)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Items, 2)
}

func TestPlaceOrder_UnconfiguredDeliveryZone(t *testing.T) {
	env := setupTestEnv(t)
	owner := guestOwner(1)

	p := env.seedProduct(t, "SKU-1", 4000, 50)
	_, err := env.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.db.Where("zone = ?", delivery.ZoneInsideDhaka).Delete(&delivery.DeliveryCost{}).Error)

	_, err = env.orders.PlaceOrder(owner, placeOrderRequest())
	assert.ErrorIs(t, err, delivery.ErrCostNotConfigured)
	assert.Equal(t, 50, env.productStock(t, p.ID))
}

func (e *testEnv) placeTestOrder(t *testing.T, ownerID uint) *Order {
	t.Helper()

	p := e.seedProduct(t, fmt.Sprintf("ORD-SKU-%d", ownerID), 4000, 50)
	owner := guestOwner(ownerID)
	_, err := e.carts.AddItem(owner, &cart.AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	o, err := e.orders.PlaceOrder(owner, placeOrderRequest())
	require.NoError(t, err)
	return o
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	o, err := env.orders.UpdateStatus(o.ID, OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.NotNil(t, o.ProcessedAt)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)

	o, err = env.orders.UpdateStatus(o.ID, OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, o.Status)
	assert.NotNil(t, o.ShippedAt)
	// Shipping never touches the payment status
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)

	o, err = env.orders.UpdateStatus(o.ID, OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, o.Status)
	assert.NotNil(t, o.DeliveredAt)
	// Cash on delivery: delivery marks the order paid
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
}

func TestUpdateStatus_RejectsSkippedSteps(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	_, err := env.orders.UpdateStatus(o.ID, OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = env.orders.UpdateStatus(o.ID, OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = env.orders.UpdateStatus(o.ID, OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	for _, status := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
		var err error
		o, err = env.orders.UpdateStatus(o.ID, status)
		require.NoError(t, err)
	}

	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled} {
		_, err := env.orders.UpdateStatus(o.ID, status)
		assert.Error(t, err)
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.orders.UpdateStatus(999, OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	require.Len(t, o.Items, 1)
	productID := o.Items[0].ProductID
	assert.Equal(t, 47, env.productStock(t, productID))

	cancelled, err := env.orders.CancelOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	assert.Equal(t, 50, env.productStock(t, productID))
}

func TestCancelOrder_AllowedFromAnyNonTerminalStatus(t *testing.T) {
	env := setupTestEnv(t)

	for i, prep := range [][]OrderStatus{
		{},
		{OrderStatusProcessing},
		{OrderStatusProcessing, OrderStatusShipped},
	} {
		o := env.placeTestOrder(t, uint(i+10))
		for _, status := range prep {
			var err error
			o, err = env.orders.UpdateStatus(o.ID, status)
			require.NoError(t, err)
		}

		cancelled, err := env.orders.CancelOrder(o.ID)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusCancelled, cancelled.Status)
	}
}

func TestCancelOrder_RejectedAfterDelivery(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	for _, status := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
		var err error
		o, err = env.orders.UpdateStatus(o.ID, status)
		require.NoError(t, err)
	}

	_, err := env.orders.CancelOrder(o.ID)
	assert.ErrorIs(t, err, ErrOrderCannotBeCancelled)
}

func TestGetOrders_FiltersAndPaginates(t *testing.T) {
	env := setupTestEnv(t)

	first := env.placeTestOrder(t, 1)
	env.placeTestOrder(t, 2)
	env.placeTestOrder(t, 3)

	_, err := env.orders.UpdateStatus(first.ID, OrderStatusProcessing)
	require.NoError(t, err)

	resp, err := env.orders.GetOrders(&OrderListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	resp, err = env.orders.GetOrders(&OrderListRequest{Page: 1, Limit: 20, Status: OrderStatusProcessing})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, first.ID, resp.Orders[0].ID)
}

func TestGetOrderByNumber(t *testing.T) {
	env := setupTestEnv(t)
	o := env.placeTestOrder(t, 1)

	got, err := env.orders.GetOrderByNumber(o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = env.orders.GetOrderByNumber("ORD-19700101-00000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-20250309-00042", GenerateOrderNumber(42, at))
}
