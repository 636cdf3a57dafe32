// internal/domain/warehouse/service_test.go
package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, &config.Config{}), repo
}

func TestCreateWarehouseDefaultsPriority(t *testing.T) {
	svc, _ := newTestService()

	w, err := svc.CreateWarehouse(context.Background(), &CreateWarehouseRequest{
		Name:     "Central",
		Code:     "CEN",
		Pincodes: []string{"560001"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, w.Priority)
	assert.True(t, w.IsActive)
	assert.True(t, w.Serves("560001"))
}

func TestCreateWarehouseRejectsInvalidPincode(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateWarehouse(context.Background(), &CreateWarehouseRequest{
		Name:     "Central",
		Code:     "CEN",
		Pincodes: []string{"560001", "bad"},
	})
	assert.ErrorIs(t, err, ErrInvalidPincode)
}

func TestUpdateWarehouseAppliesPartialFields(t *testing.T) {
	svc, _ := newTestService()
	w, err := svc.CreateWarehouse(context.Background(), &CreateWarehouseRequest{Name: "Central", Code: "CEN"})
	require.NoError(t, err)

	name := "Central Renamed"
	priority := 5
	updated, err := svc.UpdateWarehouse(context.Background(), w.ID, &UpdateWarehouseRequest{
		Name:     &name,
		Priority: &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, "Central Renamed", updated.Name)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, "CEN", updated.Code)
}

func TestUpdateWarehouseNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateWarehouse(context.Background(), 999, &UpdateWarehouseRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPincodeManagementAffectsResolution(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, &config.Config{})
	dir := NewDirectory(repo, nil)

	w, err := svc.CreateWarehouse(context.Background(), &CreateWarehouseRequest{
		Name: "Central", Code: "CEN", Pincodes: []string{"560001"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddPincodes(context.Background(), w.ID, []string{"560002"}))
	got, err := dir.Resolve(context.Background(), "560002")
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	require.NoError(t, svc.RemovePincode(context.Background(), w.ID, "560002"))
	_, err = dir.Resolve(context.Background(), "560002")
	var notServiceable *NotServiceableError
	assert.ErrorAs(t, err, &notServiceable)
}

func TestSetActiveRemovesFromRotation(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, &config.Config{})
	dir := NewDirectory(repo, nil)

	w, err := svc.CreateWarehouse(context.Background(), &CreateWarehouseRequest{
		Name: "Central", Code: "CEN", Pincodes: []string{"560001"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), w.ID, false))
	_, err = dir.Resolve(context.Background(), "560001")
	var notServiceable *NotServiceableError
	assert.ErrorAs(t, err, &notServiceable)
}
