// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound indicates the order does not exist
var ErrNotFound = errors.New("order not found")

// Repository is the persistence boundary for orders
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByReservationID(ctx context.Context, reservationID string) (*Order, error)
	UpdateStatus(ctx context.Context, id uint, status OrderStatus, paymentStatus PaymentStatus) error
	ListByWarehouse(ctx context.Context, warehouseID uint, limit int) ([]Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed order repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, o *Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		o.OrderNumber = GenerateOrderNumber(o.ID, o.CreatedAt)
		return tx.Model(o).Update("order_number", o.OrderNumber).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

func (r *gormRepository) GetByReservationID(ctx context.Context, reservationID string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("reservation_id = ?", reservationID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uint, status OrderStatus, paymentStatus PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) ListByWarehouse(ctx context.Context, warehouseID uint, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("warehouse_id = ?", warehouseID).
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
