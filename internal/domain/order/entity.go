// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Order is an immutable historical record created atomically from a cart's
// contents at checkout time.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      *uint  `gorm:"index" json:"user_id,omitempty"` // Nullable for guest orders

	// Customer contact, captured at checkout
	CustomerName    string `gorm:"not null;size:255" json:"customer_name"`
	CustomerMobile  string `gorm:"not null;size:20" json:"customer_mobile"`
	CustomerAddress string `gorm:"not null;size:500" json:"customer_address"`

	DeliveryZone delivery.Zone `gorm:"not null;size:32" json:"delivery_zone"`

	// Financial information in poisha
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	DeliveryAmount int64 `gorm:"not null" json:"delivery_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	Status        OrderStatus   `gorm:"not null;default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'PENDING'" json:"payment_status"`

	Currency string `gorm:"size:3;default:'BDT'" json:"currency"`

	// Timestamps
	ProcessedAt *time.Time     `json:"processed_at"`
	ShippedAt   *time.Time     `json:"shipped_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is an immutable snapshot of a purchased line. Display and
// pricing fields are copied from the catalog at order time and never
// recomputed, so later catalog edits do not alter historical orders.
type OrderItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	ProductID        uint      `gorm:"not null;index" json:"product_id"`
	ProductVariantID *uint     `gorm:"index" json:"product_variant_id,omitempty"`
	ProductName      string    `gorm:"not null;size:255" json:"product_name"`
	VariantName      string    `gorm:"size:255" json:"variant_name"`
	SKU              string    `gorm:"not null;size:100" json:"sku"`
	Image            string    `gorm:"size:500" json:"image"`
	UnitPrice        int64     `gorm:"not null" json:"unit_price"` // In poisha
	Quantity         int       `gorm:"not null" json:"quantity"`
	TotalPrice       int64     `gorm:"not null" json:"total_price"` // UnitPrice * Quantity
	CreatedAt        time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return !o.Status.IsTerminal()
}

// GetFormattedTotal returns the total amount as a float for display
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// GenerateOrderNumber formats the public order number for a row ID
func GenerateOrderNumber(orderID uint, at time.Time) string {
	return fmt.Sprintf("ORD-%s-%05d", at.Format("20060102"), orderID)
}
