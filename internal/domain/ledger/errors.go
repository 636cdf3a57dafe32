// internal/domain/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount indicates a zero or negative entry amount
var ErrInvalidAmount = errors.New("ledger amount must be positive")

// ErrInvalidReference indicates an empty idempotency reference
var ErrInvalidReference = errors.New("ledger reference id is required")

// DuplicateReferenceError indicates an entry with the same category and
// reference id already exists. Reprocessing the same order or payout request
// must not create a second entry.
type DuplicateReferenceError struct {
	Category    Category
	ReferenceID string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("ledger entry %s/%s already exists", e.Category, e.ReferenceID)
}

// InsufficientBalanceError indicates a debit that would drive the warehouse
// balance negative
type InsufficientBalanceError struct {
	WarehouseID uint
	Requested   int64
	Available   int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for warehouse %d: requested %d, available %d",
		e.WarehouseID, e.Requested, e.Available)
}
