// internal/domain/warehouse/repository.go
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the persistence boundary for warehouses. Stock and ledger
// components read warehouses through it; only the admin service writes.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	Update(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, id uint) (*Warehouse, error)
	List(ctx context.Context, activeOnly bool) ([]Warehouse, error)
	// ListActiveByPincode returns active warehouses serving the pincode,
	// ordered by (priority, id) so resolution is deterministic.
	ListActiveByPincode(ctx context.Context, pincode string) ([]Warehouse, error)
	AddPincodes(ctx context.Context, warehouseID uint, pincodes []string) error
	RemovePincode(ctx context.Context, warehouseID uint, pincode string) error
	SetActive(ctx context.Context, id uint, active bool) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed warehouse repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, w *Warehouse) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to create warehouse: %w", err)
	}
	return nil
}

func (r *gormRepository) Update(ctx context.Context, w *Warehouse) error {
	if err := r.db.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Warehouse, error) {
	var w Warehouse
	err := r.db.WithContext(ctx).Preload("ServiceablePincodes").First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return &w, nil
}

func (r *gormRepository) List(ctx context.Context, activeOnly bool) ([]Warehouse, error) {
	query := r.db.WithContext(ctx).Preload("ServiceablePincodes")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var warehouses []Warehouse
	if err := query.Order("priority ASC, id ASC").Find(&warehouses).Error; err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}

func (r *gormRepository) ListActiveByPincode(ctx context.Context, pincode string) ([]Warehouse, error) {
	var warehouses []Warehouse
	err := r.db.WithContext(ctx).
		Joins("JOIN warehouse_pincodes ON warehouse_pincodes.warehouse_id = warehouses.id").
		Where("warehouse_pincodes.pincode = ? AND warehouses.is_active = ?", pincode, true).
		Order("warehouses.priority ASC, warehouses.id ASC").
		Find(&warehouses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses by pincode: %w", err)
	}
	return warehouses, nil
}

func (r *gormRepository) AddPincodes(ctx context.Context, warehouseID uint, pincodes []string) error {
	var w Warehouse
	err := r.db.WithContext(ctx).Select("id").First(&w, warehouseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load warehouse: %w", err)
	}
	// Re-adding an existing pincode is a no-op, not an error
	for _, p := range pincodes {
		row := ServiceablePincode{WarehouseID: warehouseID, Pincode: p}
		result := r.db.WithContext(ctx).
			Where("warehouse_id = ? AND pincode = ?", warehouseID, p).
			FirstOrCreate(&row)
		if result.Error != nil {
			return fmt.Errorf("failed to add pincode %s: %w", p, result.Error)
		}
	}
	return nil
}

func (r *gormRepository) RemovePincode(ctx context.Context, warehouseID uint, pincode string) error {
	result := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND pincode = ?", warehouseID, pincode).
		Delete(&ServiceablePincode{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove pincode: %w", result.Error)
	}
	return nil
}

func (r *gormRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&Warehouse{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update warehouse status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
