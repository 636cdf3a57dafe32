// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/grocery-backend/internal/config"
)

// Service handles inventory business logic. Adjustments run against the
// repository's atomic operations; version conflicts are retried here with
// bounded exponential backoff before surfacing to callers.
type Service struct {
	repo   Repository
	config *config.Config
}

// NewService creates a new inventory service
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// AdjustRequest represents a single-item stock adjustment
type AdjustRequest struct {
	WarehouseID     uint   `json:"warehouse_id" binding:"required"`
	ProductID       uint   `json:"product_id" binding:"required"`
	Delta           int    `json:"delta" binding:"required"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

// GetStock returns the available stock for a product in a warehouse
func (s *Service) GetStock(ctx context.Context, warehouseID, productID uint) (int, error) {
	rec, err := s.repo.GetRecord(ctx, warehouseID, productID)
	if err != nil {
		return 0, err
	}
	return rec.Stock, nil
}

// GetRecord returns the full inventory record including its version
func (s *Service) GetRecord(ctx context.Context, warehouseID, productID uint) (*InventoryRecord, error) {
	return s.repo.GetRecord(ctx, warehouseID, productID)
}

// Adjust atomically applies a delta to one record. A delta that would drive
// stock negative is rejected with InsufficientStockError and no effect.
func (s *Service) Adjust(ctx context.Context, req *AdjustRequest) (int, error) {
	if req.Delta == 0 {
		return 0, ErrInvalidDelta
	}

	var newStock int
	err := s.withRetry(ctx, func() error {
		var adjustErr error
		newStock, adjustErr = s.repo.Adjust(ctx, req.WarehouseID, req.ProductID, req.Delta, req.ExpectedVersion, req.Reference)
		return adjustErr
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// AdjustBatch applies all deltas as one unit or none at all. The reservation
// manager relies on this to hold and release whole carts without partial
// effects.
func (s *Service) AdjustBatch(ctx context.Context, warehouseID uint, items []Adjustment, reference string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidDelta)
	}
	for _, item := range items {
		if item.Delta == 0 {
			return fmt.Errorf("%w: product %d", ErrInvalidDelta, item.ProductID)
		}
	}

	return s.withRetry(ctx, func() error {
		return s.repo.AdjustBatch(ctx, warehouseID, items, reference)
	})
}

// SetInitialStock creates the inventory record for a product if it does not
// exist yet. Restocking an existing record goes through Adjust.
func (s *Service) SetInitialStock(ctx context.Context, warehouseID, productID uint, quantity int) (*InventoryRecord, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: negative initial stock", ErrInvalidDelta)
	}
	return s.repo.Upsert(ctx, warehouseID, productID, quantity)
}

// ListByWarehouse returns all inventory records for a warehouse
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID uint) ([]InventoryRecord, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

// ListMovements returns the most recent stock movements for a product
func (s *Service) ListMovements(ctx context.Context, warehouseID, productID uint, limit int) ([]StockMovement, error) {
	return s.repo.ListMovements(ctx, warehouseID, productID, limit)
}

// withRetry retries fn on version conflicts with exponential backoff. Other
// errors, including insufficient stock, are returned immediately.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	maxRetries := s.config.Inventory.MaxRetries
	backoff := s.config.Inventory.BaseBackoff

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, ErrConflict) {
			return err
		}
		select {
		case <-time.After(backoff << attempt):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
