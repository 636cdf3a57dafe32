// internal/domain/warehouse/errors.go
package warehouse

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the warehouse does not exist
var ErrNotFound = errors.New("warehouse not found")

// ErrInvalidPincode indicates a malformed delivery pincode
var ErrInvalidPincode = errors.New("invalid pincode")

// NotServiceableError indicates no active warehouse covers a pincode.
// This is an expected business outcome, not a system failure.
type NotServiceableError struct {
	Pincode string
}

func (e *NotServiceableError) Error() string {
	return fmt.Sprintf("no serviceable warehouse for pincode %s", e.Pincode)
}
