// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is the persisted record of a checkout. It is created in Pending
// state when the reservation is opened and confirmed or cancelled on the
// payment outcome. Amounts are in paise.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	WarehouseID uint        `gorm:"not null;index" json:"warehouse_id"`
	Pincode     string      `gorm:"not null;size:6" json:"pincode"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`

	// ReservationID ties the order to the stock reservation that backs it;
	// one reservation commits into at most one order.
	ReservationID string `gorm:"uniqueIndex;not null;size:36" json:"reservation_id"`

	PaymentStatus  PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	SubtotalAmount int64         `gorm:"not null" json:"subtotal_amount"`
	TotalAmount    int64         `gorm:"not null" json:"total_amount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one purchased line
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Price per unit in paise
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber builds the customer-facing order number from the
// database id
func GenerateOrderNumber(id uint, createdAt time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", createdAt.Format("20060102"), id)
}
