// internal/domain/inventory/errors.go
package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRecordNotFound indicates no inventory record exists for the pair
var ErrRecordNotFound = errors.New("inventory record not found")

// ErrConflict indicates an optimistic-concurrency version mismatch. Callers
// inside this package retry it; once retries are exhausted it surfaces as a
// transient failure.
var ErrConflict = errors.New("inventory version conflict")

// ErrInvalidDelta indicates a zero or otherwise malformed adjustment
var ErrInvalidDelta = errors.New("invalid adjustment delta")

// InsufficientStockError reports the cart lines that exceed available stock.
// It carries per-item detail so the caller can render "only 3 left" messages.
type InsufficientStockError struct {
	Items []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("product %d: requested %d, available %d", it.ProductID, it.Requested, it.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
