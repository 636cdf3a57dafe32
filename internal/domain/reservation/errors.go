// internal/domain/reservation/errors.go
package reservation

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the reservation does not exist
var ErrNotFound = errors.New("reservation not found")

// ErrExpired indicates a commit or release arrived after the TTL elapsed.
// The stock may already have been restored by the sweep, so the operation
// must fail rather than silently succeed.
var ErrExpired = errors.New("reservation expired")

// ErrInvalidQuantity indicates a non-positive requested quantity
var ErrInvalidQuantity = errors.New("quantity must be positive")

// InvalidStateError indicates an operation that requires a Held reservation
// found it in another state
type InvalidStateError struct {
	ID     string
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("reservation %s is %s, not held", e.ID, e.Status)
}
