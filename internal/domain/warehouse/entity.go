// internal/domain/warehouse/entity.go
package warehouse

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

// Warehouse represents a fulfillment location serving a set of pincodes
type Warehouse struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null;size:100" json:"name"`
	Code     string `gorm:"uniqueIndex;not null;size:20" json:"code"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"size:50" json:"city"`
	State    string `gorm:"size:50" json:"state"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Priority breaks ties when several warehouses serve the same pincode.
	// Lower value wins; equal priorities fall back to lowest id.
	Priority int `gorm:"default:100" json:"priority"`

	// LedgerBalance is a denormalized copy of the latest ledger balance_after
	// for this warehouse, maintained by the financial ledger append.
	LedgerBalance int64 `gorm:"default:0" json:"ledger_balance"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	ServiceablePincodes []ServiceablePincode `gorm:"foreignKey:WarehouseID" json:"serviceable_pincodes,omitempty"`
}

// ServiceablePincode maps a delivery pincode to a warehouse
type ServiceablePincode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WarehouseID uint      `gorm:"not null;uniqueIndex:idx_warehouse_pincode" json:"warehouse_id"`
	Pincode     string    `gorm:"not null;size:6;uniqueIndex:idx_warehouse_pincode;index" json:"pincode"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides
func (Warehouse) TableName() string          { return "warehouses" }
func (ServiceablePincode) TableName() string { return "warehouse_pincodes" }

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// IsValidPincode reports whether s is a well-formed Indian pincode
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// Serves checks whether the warehouse serves the given pincode
func (w *Warehouse) Serves(pincode string) bool {
	for _, p := range w.ServiceablePincodes {
		if p.Pincode == pincode {
			return true
		}
	}
	return false
}
