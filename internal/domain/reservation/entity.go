// internal/domain/reservation/entity.go
package reservation

import (
	"time"
)

// Status represents the reservation lifecycle state
type Status string

const (
	StatusHeld      Status = "held"
	StatusCommitted Status = "committed"
	StatusReleased  Status = "released"
	StatusExpired   Status = "expired"
)

// Reservation is a provisional, time-bounded claim on warehouse stock. The
// held quantities were already subtracted from available stock when the
// reservation was created, so holding is what prevents overselling. A
// reservation leaves Held exactly once, into one of the three terminal
// states.
type Reservation struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	WarehouseID uint   `gorm:"not null;index" json:"warehouse_id"`
	Status      Status `gorm:"not null;default:'held';index" json:"status"`

	// OrderID is set when the reservation is committed into an order
	OrderID *uint `gorm:"index" json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Relationships
	Items []ReservationItem `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// ReservationItem is one held cart line
type ReservationItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReservationID string `gorm:"not null;size:36;index" json:"reservation_id"`
	ProductID     uint   `gorm:"not null" json:"product_id"`
	Quantity      int    `gorm:"not null" json:"quantity"`
}

// TableName overrides
func (Reservation) TableName() string     { return "inventory_reservations" }
func (ReservationItem) TableName() string { return "inventory_reservation_items" }

// IsTerminal reports whether the reservation has left the Held state
func (r *Reservation) IsTerminal() bool {
	return r.Status != StatusHeld
}

// ExpiredAt reports whether the reservation's TTL has elapsed at now
func (r *Reservation) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Line represents a requested cart line when opening a hold
type Line struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}
