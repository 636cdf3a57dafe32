// internal/domain/inventory/memory.go
package inventory

import (
	"context"
	"sort"
	"sync"
	"time"
)

type recordKey struct {
	warehouseID uint
	productID   uint
}

// MemoryRepository is an in-memory Repository with the same atomicity
// guarantees as the gorm implementation, used in tests and local tooling
type MemoryRepository struct {
	mu        sync.Mutex
	records   map[recordKey]*InventoryRecord
	movements []StockMovement
	nextID    uint
}

// NewMemoryRepository creates an empty in-memory inventory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[recordKey]*InventoryRecord),
		nextID:  1,
	}
}

func (r *MemoryRepository) GetRecord(ctx context.Context, warehouseID, productID uint) (*InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[recordKey{warehouseID, productID}]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, warehouseID, productID uint, initialStock int) (*InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{warehouseID, productID}
	if rec, ok := r.records[key]; ok {
		clone := *rec
		return &clone, nil
	}
	rec := &InventoryRecord{
		ID:          r.nextID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       initialStock,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.nextID++
	r.records[key] = rec
	clone := *rec
	return &clone, nil
}

func (r *MemoryRepository) Adjust(ctx context.Context, warehouseID, productID uint, delta int, expectedVersion *int64, reference string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adjustLocked(warehouseID, productID, delta, expectedVersion, reference)
}

func (r *MemoryRepository) AdjustBatch(ctx context.Context, warehouseID uint, items []Adjustment, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// First verify every line so a failure leaves nothing applied
	var shortfalls []Shortfall
	for _, item := range items {
		rec, ok := r.records[recordKey{warehouseID, item.ProductID}]
		if !ok {
			shortfalls = append(shortfalls, Shortfall{ProductID: item.ProductID, Requested: -item.Delta, Available: 0})
			continue
		}
		if rec.Stock+item.Delta < 0 {
			shortfalls = append(shortfalls, Shortfall{ProductID: item.ProductID, Requested: -item.Delta, Available: rec.Stock})
		}
	}
	if len(shortfalls) > 0 {
		return &InsufficientStockError{Items: shortfalls}
	}

	for _, item := range items {
		if _, err := r.adjustLocked(warehouseID, item.ProductID, item.Delta, nil, reference); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryRepository) adjustLocked(warehouseID, productID uint, delta int, expectedVersion *int64, reference string) (int, error) {
	rec, ok := r.records[recordKey{warehouseID, productID}]
	if !ok {
		return 0, ErrRecordNotFound
	}
	if expectedVersion != nil && rec.Version != *expectedVersion {
		return 0, ErrConflict
	}
	if rec.Stock+delta < 0 {
		return 0, &InsufficientStockError{Items: []Shortfall{{
			ProductID: productID,
			Requested: -delta,
			Available: rec.Stock,
		}}}
	}
	previous := rec.Stock
	rec.Stock += delta
	rec.Version++
	rec.UpdatedAt = time.Now()
	r.movements = append(r.movements, StockMovement{
		ID:            uint(len(r.movements) + 1),
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Delta:         delta,
		PreviousStock: previous,
		NewStock:      rec.Stock,
		Reference:     reference,
		CreatedAt:     time.Now(),
	})
	return rec.Stock, nil
}

func (r *MemoryRepository) ListByWarehouse(ctx context.Context, warehouseID uint) ([]InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []InventoryRecord
	for key, rec := range r.records {
		if key.warehouseID == warehouseID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *MemoryRepository) ListMovements(ctx context.Context, warehouseID, productID uint, limit int) ([]StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var out []StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.movements[i]
		if m.WarehouseID == warehouseID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
