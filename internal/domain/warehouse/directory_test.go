// internal/domain/warehouse/directory_test.go
package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWarehouse(t *testing.T, repo Repository, name string, priority int, active bool, pincodes ...string) *Warehouse {
	t.Helper()
	w := &Warehouse{
		Name:     name,
		Code:     name,
		IsActive: active,
		Priority: priority,
	}
	for _, p := range pincodes {
		w.ServiceablePincodes = append(w.ServiceablePincodes, ServiceablePincode{Pincode: p})
	}
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestResolveReturnsServingWarehouse(t *testing.T) {
	repo := NewMemoryRepository()
	w := seedWarehouse(t, repo, "WH-A", 10, true, "560001", "560002")
	dir := NewDirectory(repo, nil)

	got, err := dir.Resolve(context.Background(), "560002")
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func TestResolvePrefersLowerPriority(t *testing.T) {
	repo := NewMemoryRepository()
	seedWarehouse(t, repo, "WH-SLOW", 50, true, "560001")
	fast := seedWarehouse(t, repo, "WH-FAST", 10, true, "560001")
	dir := NewDirectory(repo, nil)

	got, err := dir.Resolve(context.Background(), "560001")
	require.NoError(t, err)
	assert.Equal(t, fast.ID, got.ID)
}

func TestResolveBreaksPriorityTiesByID(t *testing.T) {
	repo := NewMemoryRepository()
	first := seedWarehouse(t, repo, "WH-1", 10, true, "560001")
	seedWarehouse(t, repo, "WH-2", 10, true, "560001")
	dir := NewDirectory(repo, nil)

	// Same pincode must always route to the same warehouse
	for i := 0; i < 5; i++ {
		got, err := dir.Resolve(context.Background(), "560001")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	}
}

func TestResolveSkipsInactiveWarehouses(t *testing.T) {
	repo := NewMemoryRepository()
	seedWarehouse(t, repo, "WH-OFF", 10, false, "560001")
	backup := seedWarehouse(t, repo, "WH-ON", 20, true, "560001")
	dir := NewDirectory(repo, nil)

	got, err := dir.Resolve(context.Background(), "560001")
	require.NoError(t, err)
	assert.Equal(t, backup.ID, got.ID)
}

func TestResolveNotServiceable(t *testing.T) {
	repo := NewMemoryRepository()
	seedWarehouse(t, repo, "WH-A", 10, true, "560001")
	dir := NewDirectory(repo, nil)

	_, err := dir.Resolve(context.Background(), "110001")
	var notServiceable *NotServiceableError
	require.ErrorAs(t, err, &notServiceable)
	assert.Equal(t, "110001", notServiceable.Pincode)
}

func TestResolveRejectsInvalidPincodes(t *testing.T) {
	dir := NewDirectory(NewMemoryRepository(), nil)

	for _, pincode := range []string{"", "123", "0560001", "012345", "56000a", "5600011"} {
		_, err := dir.Resolve(context.Background(), pincode)
		assert.True(t, errors.Is(err, ErrInvalidPincode), "pincode %q should be invalid", pincode)
	}
}

func TestIsValidPincode(t *testing.T) {
	assert.True(t, IsValidPincode("560001"))
	assert.True(t, IsValidPincode("110042"))
	assert.False(t, IsValidPincode("060001"))
	assert.False(t, IsValidPincode("56001"))
	assert.False(t, IsValidPincode("560 01"))
}
