// internal/domain/inventory/service_test.go
package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
)

func newTestService() *Service {
	cfg := &config.Config{
		Inventory: config.InventoryConfig{
			MaxRetries:  3,
			BaseBackoff: time.Millisecond,
		},
	}
	return NewService(NewMemoryRepository(), cfg)
}

func TestAdjustAppliesDelta(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	newStock, err := svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -4})
	require.NoError(t, err)
	assert.Equal(t, 6, newStock)

	newStock, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: 7})
	require.NoError(t, err)
	assert.Equal(t, 13, newStock)
}

func TestAdjustIncrementsVersion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	before, err := svc.GetRecord(ctx, 1, 100)
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -1})
	require.NoError(t, err)

	after, err := svc.GetRecord(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, before.Version+1, after.Version)
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 3)
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -5})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, uint(100), insufficient.Items[0].ProductID)
	assert.Equal(t, 5, insufficient.Items[0].Requested)
	assert.Equal(t, 3, insufficient.Items[0].Available)

	// The failed adjust must leave stock untouched
	stock, err := svc.GetStock(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)
}

func TestAdjustZeroDelta(t *testing.T) {
	svc := newTestService()
	_, err := svc.Adjust(context.Background(), &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: 0})
	assert.ErrorIs(t, err, ErrInvalidDelta)
}

func TestAdjustUnknownRecord(t *testing.T) {
	svc := newTestService()
	_, err := svc.Adjust(context.Background(), &AdjustRequest{WarehouseID: 1, ProductID: 999, Delta: -1})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAdjustVersionMismatchSurfacesConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	rec, err := svc.GetRecord(ctx, 1, 100)
	require.NoError(t, err)

	// Someone else moves the version forward
	_, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -1})
	require.NoError(t, err)

	stale := rec.Version
	_, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -1, ExpectedVersion: &stale})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAdjustWithCurrentVersionSucceeds(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	rec, err := svc.GetRecord(ctx, 1, 100)
	require.NoError(t, err)

	newStock, err := svc.Adjust(ctx, &AdjustRequest{
		WarehouseID: 1, ProductID: 100, Delta: -2, ExpectedVersion: &rec.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, newStock)
}

func TestAdjustBatchAllOrNothing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)
	_, err = svc.SetInitialStock(ctx, 1, 200, 2)
	require.NoError(t, err)

	err = svc.AdjustBatch(ctx, 1, []Adjustment{
		{ProductID: 100, Delta: -5},
		{ProductID: 200, Delta: -3},
	}, "test-batch")
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, uint(200), insufficient.Items[0].ProductID)
	assert.Equal(t, 2, insufficient.Items[0].Available)

	// Nothing from the batch may have been applied
	stock, err := svc.GetStock(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)
	stock, err = svc.GetStock(ctx, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)
}

func TestAdjustBatchAppliesAllLines(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)
	_, err = svc.SetInitialStock(ctx, 1, 200, 5)
	require.NoError(t, err)

	err = svc.AdjustBatch(ctx, 1, []Adjustment{
		{ProductID: 100, Delta: -3},
		{ProductID: 200, Delta: -5},
	}, "test-batch")
	require.NoError(t, err)

	stock, err := svc.GetStock(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
	stock, err = svc.GetStock(ctx, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestConcurrentAdjustsNeverOversell(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -1}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	stock, err := svc.GetStock(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestMovementsRecordBeforeAndAfter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, &AdjustRequest{WarehouseID: 1, ProductID: 100, Delta: -4, Reference: "pick-1"})
	require.NoError(t, err)

	movements, err := svc.ListMovements(ctx, 1, 100, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -4, movements[0].Delta)
	assert.Equal(t, 10, movements[0].PreviousStock)
	assert.Equal(t, 6, movements[0].NewStock)
	assert.Equal(t, "pick-1", movements[0].Reference)
}

func TestSetInitialStockIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SetInitialStock(ctx, 1, 100, 10)
	require.NoError(t, err)

	// A second seed must not reset existing stock
	rec, err := svc.SetInitialStock(ctx, 1, 100, 99)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Stock)
}
