// internal/domain/inventory/repository.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Repository is the persistence boundary for inventory records. Both
// operations are atomic against the backing store: an adjustment either
// applies in full or leaves the record untouched.
type Repository interface {
	GetRecord(ctx context.Context, warehouseID, productID uint) (*InventoryRecord, error)
	// Upsert creates the record with the given stock if it does not exist,
	// or returns the existing one unchanged.
	Upsert(ctx context.Context, warehouseID, productID uint, initialStock int) (*InventoryRecord, error)
	// Adjust applies delta to a single record if the result stays >= 0.
	// When expectedVersion is non-nil the update additionally requires the
	// current version to match, returning ErrConflict otherwise.
	Adjust(ctx context.Context, warehouseID, productID uint, delta int, expectedVersion *int64, reference string) (int, error)
	// AdjustBatch applies all deltas or none. On stock shortage it returns
	// *InsufficientStockError listing every failing line.
	AdjustBatch(ctx context.Context, warehouseID uint, items []Adjustment, reference string) error
	ListByWarehouse(ctx context.Context, warehouseID uint) ([]InventoryRecord, error)
	ListMovements(ctx context.Context, warehouseID, productID uint, limit int) ([]StockMovement, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed inventory repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetRecord(ctx context.Context, warehouseID, productID uint) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory record: %w", err)
	}
	return &rec, nil
}

func (r *gormRepository) Upsert(ctx context.Context, warehouseID, productID uint, initialStock int) (*InventoryRecord, error) {
	rec := InventoryRecord{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       initialStock,
	}
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		FirstOrCreate(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert inventory record: %w", err)
	}
	return &rec, nil
}

func (r *gormRepository) Adjust(ctx context.Context, warehouseID, productID uint, delta int, expectedVersion *int64, reference string) (int, error) {
	var newStock int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := applyAdjust(tx, warehouseID, productID, delta, expectedVersion, reference)
		if err != nil {
			return err
		}
		newStock = applied
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

func (r *gormRepository) AdjustBatch(ctx context.Context, warehouseID uint, items []Adjustment, reference string) error {
	// Touch records in a stable order so concurrent batches never deadlock
	sorted := make([]Adjustment, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shortfalls []Shortfall
		for _, item := range sorted {
			_, err := applyAdjust(tx, warehouseID, item.ProductID, item.Delta, nil, reference)
			if err == nil {
				continue
			}
			var insufficient *InsufficientStockError
			if errors.As(err, &insufficient) {
				shortfalls = append(shortfalls, insufficient.Items...)
				continue
			}
			if errors.Is(err, ErrRecordNotFound) {
				shortfalls = append(shortfalls, Shortfall{
					ProductID: item.ProductID,
					Requested: -item.Delta,
					Available: 0,
				})
				continue
			}
			return err
		}
		if len(shortfalls) > 0 {
			// Rolling back discards every applied line: all or nothing
			return &InsufficientStockError{Items: shortfalls}
		}
		return nil
	})
}

// applyAdjust performs the conditional update that keeps stock non-negative.
// The WHERE clause carries the invariant: the row only changes when the
// resulting stock stays >= 0 (and the version matches, when supplied).
func applyAdjust(tx *gorm.DB, warehouseID, productID uint, delta int, expectedVersion *int64, reference string) (int, error) {
	query := tx.Model(&InventoryRecord{}).
		Where("warehouse_id = ? AND product_id = ? AND stock + ? >= 0", warehouseID, productID, delta)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}

	result := query.Updates(map[string]interface{}{
		"stock":   gorm.Expr("stock + ?", delta),
		"version": gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return 0, classifyAdjustFailure(tx, warehouseID, productID, delta, expectedVersion)
	}

	var rec InventoryRecord
	if err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&rec).Error; err != nil {
		return 0, fmt.Errorf("failed to reload inventory record: %w", err)
	}

	movement := StockMovement{
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Delta:         delta,
		PreviousStock: rec.Stock - delta,
		NewStock:      rec.Stock,
		Reference:     reference,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return 0, fmt.Errorf("failed to record stock movement: %w", err)
	}

	return rec.Stock, nil
}

// classifyAdjustFailure decides why a conditional update matched no rows
func classifyAdjustFailure(tx *gorm.DB, warehouseID, productID uint, delta int, expectedVersion *int64) error {
	var rec InventoryRecord
	err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to classify adjust failure: %w", err)
	}
	if expectedVersion != nil && rec.Version != *expectedVersion {
		return ErrConflict
	}
	return &InsufficientStockError{Items: []Shortfall{{
		ProductID: productID,
		Requested: -delta,
		Available: rec.Stock,
	}}}
}

func (r *gormRepository) ListByWarehouse(ctx context.Context, warehouseID uint) ([]InventoryRecord, error) {
	var records []InventoryRecord
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("product_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return records, nil
}

func (r *gormRepository) ListMovements(ctx context.Context, warehouseID, productID uint, limit int) ([]StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var movements []StockMovement
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Order("id DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}
