// internal/domain/ledger/entity.go
package ledger

import (
	"time"
)

// EntryType represents the direction of a ledger entry
type EntryType string

const (
	EntryTypeCredit EntryType = "CREDIT"
	EntryTypeDebit  EntryType = "DEBIT"
)

// Category classifies what a ledger entry records
type Category string

const (
	CategoryOrderSettlement Category = "ORDER_SETTLEMENT"
	CategoryPayout          Category = "PAYOUT"
	CategoryAdjustment      Category = "ADJUSTMENT"
)

// LedgerEntry is one immutable line in a warehouse's financial ledger.
// Entries are append-only: never updated, never deleted. BalanceAfter chains
// each entry to its predecessor, so the latest entry always carries the
// warehouse's current balance. Amounts are in paise.
type LedgerEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	WarehouseID  uint      `gorm:"not null;index:idx_ledger_warehouse_time" json:"warehouse_id"`
	Type         EntryType `gorm:"not null;size:10" json:"type"`
	Category     Category  `gorm:"not null;size:30;uniqueIndex:idx_ledger_category_reference" json:"category"`
	Amount       int64     `gorm:"not null" json:"amount"`
	BalanceAfter int64     `gorm:"not null" json:"balance_after"`
	ReferenceID  string    `gorm:"not null;size:100;uniqueIndex:idx_ledger_category_reference" json:"reference_id"`
	CreatedAt    time.Time `gorm:"index:idx_ledger_warehouse_time" json:"created_at"`
}

// TableName overrides
func (LedgerEntry) TableName() string { return "ledger_entries" }

// Signed returns the entry's effect on the warehouse balance
func (e *LedgerEntry) Signed() int64 {
	if e.Type == EntryTypeDebit {
		return -e.Amount
	}
	return e.Amount
}
