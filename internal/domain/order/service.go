// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Sentinel errors returned by the order service. Handlers branch on these
// with errors.Is to map domain preconditions to user-facing messages.
var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrItemUnavailable         = errors.New("cart item no longer available")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderCannotBeCancelled  = errors.New("order cannot be cancelled")
)

// Service handles order business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	cartService     *cart.Service
	deliveryService *delivery.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, deliveryService *delivery.Service) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		cartService:     cartService,
		deliveryService: deliveryService,
	}
}

// PlaceOrderRequest represents checkout data
type PlaceOrderRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required,max=255"`
	CustomerMobile  string        `json:"customer_mobile" binding:"required,max=20"`
	CustomerAddress string        `json:"customer_address" binding:"required,max=500"`
	DeliveryZone    delivery.Zone `json:"delivery_zone" binding:"required,oneof=INSIDE_DHAKA OUTSIDE_DHAKA"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1" binding:"omitempty,min=1"`
	Limit     int         `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Status    OrderStatus `form:"status"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderListResponse represents order response with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
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

// PlaceOrder creates an order from the owner's cart.
//
// The order row, its item snapshots, and every stock decrement commit or
// roll back together. Stock is decremented with a guarded conditional
// update so two concurrent checkouts cannot drive stock negative: when the
// guard matches no row the whole transaction aborts with
// ErrInsufficientStock. The cart is cleared after commit as a separate,
// non-transactional step; a stale cart is a low-severity issue, not a
// correctness one.
func (s *Service) PlaceOrder(owner cart.Owner, req *PlaceOrderRequest) (*Order, error) {
	c, err := s.cartService.GetCart(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.validateCartItems(c.Items); err != nil {
		return nil, err
	}

	deliveryCost, err := s.deliveryService.CostFor(req.DeliveryZone)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal(c.Items)
	total := subtotal + deliveryCost

	o := Order{
		UserID:          owner.UserID,
		CustomerName:    req.CustomerName,
		CustomerMobile:  req.CustomerMobile,
		CustomerAddress: req.CustomerAddress,
		DeliveryZone:    req.DeliveryZone,
		SubtotalAmount:  subtotal,
		DeliveryAmount:  deliveryCost,
		TotalAmount:     total,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		Currency:        s.config.Store.Currency,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		o.OrderNumber = GenerateOrderNumber(o.ID, time.Now().UTC())
		if err := tx.Model(&o).Update("order_number", o.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		for i := range c.Items {
			item := &c.Items[i]

			snapshot := s.snapshotItem(o.ID, item)
			if err := tx.Create(&snapshot).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			if err := s.decrementStock(tx, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit; a failure here leaves a stale cart, not a broken order
	if err := s.cartService.Clear(owner); err != nil {
		log.Printf("Warning: failed to clear cart after order %s: %v", o.OrderNumber, err)
	}

	return s.GetOrder(o.ID)
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{}).Preload("Items")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}

	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
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

	return &OrderListResponse{
		Orders:     orders,
		Pagination: pagination,
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("id = ?", id).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrderByNumber retrieves a single order by its public order number
func (s *Service) GetOrderByNumber(orderNumber string) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("order_number = ?", orderNumber).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// UpdateStatus moves an order one step along the status machine:
// PENDING → PROCESSING → SHIPPED → DELIVERED, or any non-terminal status
// to CANCELLED. Transitioning to DELIVERED sets the payment status to PAID
// in the same write (cash on delivery); no other transition touches the
// payment status. Cancellation restores stock.
func (s *Service) UpdateStatus(orderID uint, status OrderStatus) (*Order, error) {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !isValidTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, o.Status, status)
	}

	if status == OrderStatusCancelled {
		if err := s.cancel(&o); err != nil {
			return nil, err
		}
		return s.GetOrder(orderID)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status": status,
	}

	switch status {
	case OrderStatusProcessing:
		updates["processed_at"] = now
	case OrderStatusShipped:
		updates["shipped_at"] = now
	case OrderStatusDelivered:
		updates["delivered_at"] = now
		// Cash on delivery: handing the parcel over is the payment
		updates["payment_status"] = PaymentStatusPaid
	}

	if err := s.db.Model(&o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return s.GetOrder(orderID)
}

// CancelOrder cancels an order and restores the stock its items reserved
func (s *Service) CancelOrder(orderID uint) (*Order, error) {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !o.CanBeCancelled() {
		return nil, fmt.Errorf("%w: status %s", ErrOrderCannotBeCancelled, o.Status)
	}

	if err := s.cancel(&o); err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// Private helpers

func (s *Service) cancel(o *Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.restoreStock(tx, o.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":       OrderStatusCancelled,
			"cancelled_at": now,
		}
		if err := tx.Model(o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
}

func (s *Service) validateCartItems(items []cart.CartItem) error {
	for i := range items {
		item := &items[i]

		if item.Product == nil || !item.Product.IsActive {
			return fmt.Errorf("%w: product %d", ErrItemUnavailable, item.ProductID)
		}

		if item.ProductVariantID != nil {
			if item.ProductVariant == nil || !item.ProductVariant.IsActive {
				return fmt.Errorf("%w: variant of %s", ErrItemUnavailable, item.Product.Name)
			}
		}
	}
	return nil
}

// snapshotItem copies the display and pricing fields a historical order
// must keep even after the catalog changes.
func (s *Service) snapshotItem(orderID uint, item *cart.CartItem) OrderItem {
	snapshot := OrderItem{
		OrderID:          orderID,
		ProductID:        item.ProductID,
		ProductVariantID: item.ProductVariantID,
		ProductName:      item.Product.Name,
		SKU:              item.Product.SKU,
		Image:            item.Product.PrimaryImage(),
		UnitPrice:        item.UnitPrice(),
		Quantity:         item.Quantity,
		TotalPrice:       item.LineTotal(),
	}

	if item.ProductVariant != nil {
		snapshot.VariantName = item.ProductVariant.Name
		snapshot.SKU = item.ProductVariant.SKU
	}

	return snapshot
}

// decrementStock applies a guarded decrement: the row is only updated when
// enough stock remains, so a lost race surfaces as RowsAffected == 0 and
// aborts the surrounding transaction.
func (s *Service) decrementStock(tx *gorm.DB, item *cart.CartItem) error {
	if item.ProductVariantID != nil {
		result := tx.Model(&product.ProductVariant{}).
			Where("id = ? AND stock >= ?", *item.ProductVariantID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to decrement variant stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s (%s)", ErrInsufficientStock, item.Product.Name, item.ProductVariant.Name)
		}
		return nil
	}

	result := tx.Model(&product.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement product stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Product.Name)
	}
	return nil
}

func (s *Service) restoreStock(tx *gorm.DB, orderID uint) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range items {
		if item.ProductVariantID != nil {
			result := tx.Model(&product.ProductVariant{}).
				Where("id = ?", *item.ProductVariantID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to restore variant stock: %w", result.Error)
			}
		} else {
			result := tx.Model(&product.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to restore product stock: %w", result.Error)
			}
		}
	}
	return nil
}

func isValidTransition(from, to OrderStatus) bool {
	validTransitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	}

	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_amount": true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
