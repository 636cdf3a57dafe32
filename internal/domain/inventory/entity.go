// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// InventoryRecord represents stock for a product in a warehouse. It is the
// only shared mutable stock state in the system; all writes go through the
// atomic adjust operations, never through direct saves.
type InventoryRecord struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WarehouseID uint `gorm:"not null;uniqueIndex:idx_warehouse_product" json:"warehouse_id"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_warehouse_product;index" json:"product_id"`

	// Stock is the available quantity. Held reservations have already been
	// subtracted, so the value is directly sellable stock. Never negative.
	Stock int `gorm:"not null;default:0" json:"stock"`

	// Version increments on every applied adjustment and backs the
	// optimistic-concurrency check for single-item adjusts.
	Version int64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockMovement is an audit record of one applied stock adjustment
type StockMovement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WarehouseID   uint      `gorm:"not null;index:idx_movement_warehouse_product" json:"warehouse_id"`
	ProductID     uint      `gorm:"not null;index:idx_movement_warehouse_product" json:"product_id"`
	Delta         int       `gorm:"not null" json:"delta"`
	PreviousStock int       `gorm:"not null" json:"previous_stock"`
	NewStock      int       `gorm:"not null" json:"new_stock"`
	Reference     string    `gorm:"size:100;index" json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides
func (InventoryRecord) TableName() string { return "warehouse_inventory" }
func (StockMovement) TableName() string   { return "stock_movements" }

// Adjustment is one line of a batch stock adjustment. Delta is negative for
// holds and sales, positive for restocks and restores.
type Adjustment struct {
	ProductID uint `json:"product_id"`
	Delta     int  `json:"delta"`
}

// Shortfall describes a line that could not be adjusted for lack of stock
type Shortfall struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"`
	Available int  `json:"available"`
}
