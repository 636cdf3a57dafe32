// internal/domain/ledger/service.go
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/grocery-backend/internal/config"
)

// Service handles financial ledger business logic. Every money movement for
// a warehouse flows through Append; settlements and payouts are thin
// wrappers that fix the type, category and reference convention.
type Service struct {
	repo   Repository
	config *config.Config
}

// NewService creates a new ledger service
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// AppendRequest represents one ledger entry to append
type AppendRequest struct {
	WarehouseID uint      `json:"warehouse_id" binding:"required"`
	Type        EntryType `json:"type" binding:"required"`
	Category    Category  `json:"category" binding:"required"`
	Amount      int64     `json:"amount" binding:"required"`
	ReferenceID string    `json:"reference_id" binding:"required"`
}

// Append validates and atomically appends a ledger entry. Debits are gated
// on the current balance; duplicate (category, reference) pairs are
// rejected so retried operations never double-book.
func (s *Service) Append(ctx context.Context, req *AppendRequest) (*LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.ReferenceID == "" {
		return nil, ErrInvalidReference
	}
	if req.Type != EntryTypeCredit && req.Type != EntryTypeDebit {
		return nil, fmt.Errorf("invalid entry type: %q", req.Type)
	}

	entry := &LedgerEntry{
		WarehouseID: req.WarehouseID,
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CurrentBalance returns the warehouse's running balance, 0 if it has no
// entries yet
func (s *Service) CurrentBalance(ctx context.Context, warehouseID uint) (int64, error) {
	return s.repo.LatestBalance(ctx, warehouseID)
}

// RecordSettlement credits a warehouse for a committed order. Idempotent on
// the order id: a second settlement of the same order fails with
// DuplicateReferenceError and books nothing.
func (s *Service) RecordSettlement(ctx context.Context, orderID, warehouseID uint, amount int64) (*LedgerEntry, error) {
	return s.Append(ctx, &AppendRequest{
		WarehouseID: warehouseID,
		Type:        EntryTypeCredit,
		Category:    CategoryOrderSettlement,
		Amount:      amount,
		ReferenceID: OrderReference(orderID),
	})
}

// RecordPayout debits a warehouse for money paid out to its operator. Fails
// with InsufficientBalanceError when the amount exceeds the current balance.
func (s *Service) RecordPayout(ctx context.Context, warehouseID uint, amount int64, referenceID string) (*LedgerEntry, error) {
	return s.Append(ctx, &AppendRequest{
		WarehouseID: warehouseID,
		Type:        EntryTypeDebit,
		Category:    CategoryPayout,
		Amount:      amount,
		ReferenceID: referenceID,
	})
}

// ListEntries returns ledger entries for a warehouse within a time range,
// newest first
func (s *Service) ListEntries(ctx context.Context, warehouseID uint, from, to *time.Time, limit int) ([]LedgerEntry, error) {
	return s.repo.List(ctx, warehouseID, from, to, limit)
}

// OrderReference is the settlement idempotency key for an order
func OrderReference(orderID uint) string {
	return fmt.Sprintf("order-%d", orderID)
}

// OrderSettler adapts Service to the reservation manager's settlement hook.
// A duplicate reference means the order was already settled, which the
// manager treats as success.
type OrderSettler struct {
	svc *Service
}

// NewOrderSettler creates a settlement adapter around the ledger service
func NewOrderSettler(svc *Service) *OrderSettler {
	return &OrderSettler{svc: svc}
}

// RecordSettlement posts the settlement credit for a committed order
func (s *OrderSettler) RecordSettlement(ctx context.Context, orderID, warehouseID uint, amount int64) error {
	_, err := s.svc.RecordSettlement(ctx, orderID, warehouseID, amount)
	var dup *DuplicateReferenceError
	if errors.As(err, &dup) {
		return nil
	}
	return err
}
