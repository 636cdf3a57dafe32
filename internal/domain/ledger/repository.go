// internal/domain/ledger/repository.go
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

// Repository is the persistence boundary for the financial ledger. Append is
// the only write path and runs as one atomic unit: balance computation,
// debit gating, duplicate check, entry insert and the denormalized warehouse
// balance refresh all commit or roll back together.
type Repository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	LatestBalance(ctx context.Context, warehouseID uint) (int64, error)
	List(ctx context.Context, warehouseID uint, from, to *time.Time, limit int) ([]LedgerEntry, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed ledger repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Append(ctx context.Context, entry *LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize appends per warehouse: concurrent payouts must not both
		// observe the same starting balance.
		var w warehouse.Warehouse
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "ledger_balance").
			First(&w, entry.WarehouseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return warehouse.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock warehouse: %w", err)
		}

		var existing int64
		err = tx.Model(&LedgerEntry{}).
			Where("category = ? AND reference_id = ?", entry.Category, entry.ReferenceID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check reference uniqueness: %w", err)
		}
		if existing > 0 {
			return &DuplicateReferenceError{Category: entry.Category, ReferenceID: entry.ReferenceID}
		}

		balance, err := latestBalance(tx, entry.WarehouseID)
		if err != nil {
			return err
		}

		if entry.Type == EntryTypeDebit && entry.Amount > balance {
			return &InsufficientBalanceError{
				WarehouseID: entry.WarehouseID,
				Requested:   entry.Amount,
				Available:   balance,
			}
		}

		entry.BalanceAfter = balance + entry.Signed()
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		err = tx.Model(&warehouse.Warehouse{}).
			Where("id = ?", entry.WarehouseID).
			Update("ledger_balance", entry.BalanceAfter).Error
		if err != nil {
			return fmt.Errorf("failed to refresh warehouse balance: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) LatestBalance(ctx context.Context, warehouseID uint) (int64, error) {
	return latestBalance(r.db.WithContext(ctx), warehouseID)
}

// latestBalance reads the balance_after of the most recent entry, or 0 when
// the warehouse has no entries yet
func latestBalance(tx *gorm.DB, warehouseID uint) (int64, error) {
	var last LedgerEntry
	err := tx.Where("warehouse_id = ?", warehouseID).
		Order("id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load latest ledger entry: %w", err)
	}
	return last.BalanceAfter, nil
}

func (r *gormRepository) List(ctx context.Context, warehouseID uint, from, to *time.Time, limit int) ([]LedgerEntry, error) {
	query := r.db.WithContext(ctx).Where("warehouse_id = ?", warehouseID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}
	if limit <= 0 {
		limit = 100
	}
	var entries []LedgerEntry
	if err := query.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
