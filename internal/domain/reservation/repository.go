// internal/domain/reservation/repository.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows reservation listings for monitoring dashboards
type ListFilter struct {
	WarehouseID *uint
	Status      *Status
	From        *time.Time
	To          *time.Time
	Limit       int
}

// Repository is the persistence boundary for reservations. The terminal
// transition is a compare-and-swap on status, which is what enforces the
// exactly-one-transition invariant under concurrent commits, releases and
// sweeps.
type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	Get(ctx context.Context, id string) (*Reservation, error)
	// TransitionFromHeld atomically moves a Held reservation to a terminal
	// status, optionally attaching an order id. It reports false when the
	// reservation was not in Held, without error.
	TransitionFromHeld(ctx context.Context, id string, to Status, orderID *uint) (bool, error)
	// ListExpiredHeld returns Held reservations whose TTL elapsed before now
	ListExpiredHeld(ctx context.Context, now time.Time, limit int) ([]Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]Reservation, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed reservation repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, res *Reservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *gormRepository) Get(ctx context.Context, id string) (*Reservation, error) {
	var res Reservation
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &res, nil
}

func (r *gormRepository) TransitionFromHeld(ctx context.Context, id string, to Status, orderID *uint) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if orderID != nil {
		updates["order_id"] = *orderID
	}
	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, StatusHeld).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition reservation: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormRepository) ListExpiredHeld(ctx context.Context, now time.Time, limit int) ([]Reservation, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []Reservation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND expires_at < ?", StatusHeld, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired reservations: %w", err)
	}
	return out, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var out []Reservation
	if err := query.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return out, nil
}
