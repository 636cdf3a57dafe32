// internal/domain/reservation/service.go
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
)

// Settler posts the warehouse credit for a committed order. Implementations
// must be idempotent on the order id: settling the same order twice is a
// no-op, not an error.
type Settler interface {
	RecordSettlement(ctx context.Context, orderID, warehouseID uint, amount int64) error
}

// Manager owns the reservation state machine. A hold atomically removes the
// requested quantities from the available pool; commit, release and the
// expiry sweep each perform the single allowed terminal transition.
type Manager struct {
	repo    Repository
	stock   *inventory.Service
	settler Settler
	config  *config.Config
	logger  *logrus.Logger
}

// NewManager creates a new reservation manager
func NewManager(repo Repository, stock *inventory.Service, settler Settler, cfg *config.Config, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		repo:    repo,
		stock:   stock,
		settler: settler,
		config:  cfg,
		logger:  logger,
	}
}

// Hold atomically claims stock for every cart line and persists a Held
// reservation with expiry now+TTL. If any line lacks stock, nothing is
// claimed and the caller receives the full shortfall list.
func (m *Manager) Hold(ctx context.Context, warehouseID uint, lines []Line) (*Reservation, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty cart", ErrInvalidQuantity)
	}
	merged := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	id := uuid.New().String()
	adjustments := make([]inventory.Adjustment, 0, len(merged))
	items := make([]ReservationItem, 0, len(merged))
	for productID, qty := range merged {
		adjustments = append(adjustments, inventory.Adjustment{ProductID: productID, Delta: -qty})
		items = append(items, ReservationItem{ReservationID: id, ProductID: productID, Quantity: qty})
	}

	// Decrementing stock first is the oversell guard: once this batch
	// succeeds, no concurrent hold can claim the same units.
	if err := m.stock.AdjustBatch(ctx, warehouseID, adjustments, holdReference(id)); err != nil {
		return nil, err
	}

	now := time.Now()
	res := &Reservation{
		ID:          id,
		WarehouseID: warehouseID,
		Status:      StatusHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(m.config.Reservation.TTL),
		Items:       items,
	}
	if err := m.repo.Create(ctx, res); err != nil {
		// Compensate the decrement so the stock does not leak
		if restoreErr := m.restoreStock(ctx, res); restoreErr != nil {
			m.logger.WithFields(logrus.Fields{
				"reservation_id": id,
				"warehouse_id":   warehouseID,
				"error":          restoreErr.Error(),
			}).Error("Failed to restore stock after reservation persist failure")
		}
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	return res, nil
}

// Commit finalizes a Held reservation into an order and posts the warehouse
// settlement credit exactly once. Stock was already decremented at hold
// time, so commit touches no inventory.
func (m *Manager) Commit(ctx context.Context, reservationID string, orderID uint, amount int64) (*Reservation, error) {
	res, err := m.repo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	// A retried commit of the same order is idempotent
	if res.Status == StatusCommitted && res.OrderID != nil && *res.OrderID == orderID {
		if err := m.settle(ctx, orderID, res.WarehouseID, amount); err != nil {
			return nil, err
		}
		return res, nil
	}
	if res.Status == StatusExpired {
		// The sweep already restored this stock
		return nil, ErrExpired
	}
	if res.IsTerminal() {
		return nil, &InvalidStateError{ID: reservationID, Status: res.Status}
	}
	if res.ExpiredAt(time.Now()) {
		// The sweep may already have restored this stock
		return nil, ErrExpired
	}

	ok, err := m.repo.TransitionFromHeld(ctx, reservationID, StatusCommitted, &orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent commit, release or sweep
		return m.resolveLostTransition(ctx, reservationID, orderID, amount)
	}

	if err := m.settle(ctx, orderID, res.WarehouseID, amount); err != nil {
		return nil, err
	}

	res.Status = StatusCommitted
	res.OrderID = &orderID
	return res, nil
}

// Release returns the held quantities to the available pool. Only a Held
// reservation can be released; releasing twice restores nothing the second
// time.
func (m *Manager) Release(ctx context.Context, reservationID string) (*Reservation, error) {
	res, err := m.repo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status == StatusExpired {
		// The sweep already restored this stock
		return nil, ErrExpired
	}
	if res.IsTerminal() {
		return nil, &InvalidStateError{ID: reservationID, Status: res.Status}
	}
	if res.ExpiredAt(time.Now()) {
		// The sweep owns expired holds; releasing here could race its restore
		return nil, ErrExpired
	}

	ok, err := m.repo.TransitionFromHeld(ctx, reservationID, StatusReleased, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, getErr := m.repo.Get(ctx, reservationID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == StatusExpired {
			return nil, ErrExpired
		}
		return nil, &InvalidStateError{ID: reservationID, Status: current.Status}
	}

	if err := m.restoreStock(ctx, res); err != nil {
		return nil, err
	}

	res.Status = StatusReleased
	return res, nil
}

// SweepExpired transitions Held reservations past their TTL to Expired and
// restores their stock. It is the safety net against clients that hold
// stock and never confirm or cancel. Each reservation is handled
// independently so one failure does not block the rest.
func (m *Manager) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := m.repo.ListExpiredHeld(ctx, now, m.config.Reservation.SweepBatch)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		res := expired[i]
		ok, err := m.repo.TransitionFromHeld(ctx, res.ID, StatusExpired, nil)
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"reservation_id": res.ID,
				"error":          err.Error(),
			}).Warn("Failed to expire reservation, skipping")
			continue
		}
		if !ok {
			// Committed or released since the listing; nothing to restore
			continue
		}
		if err := m.restoreStock(ctx, &res); err != nil {
			m.logger.WithFields(logrus.Fields{
				"reservation_id": res.ID,
				"warehouse_id":   res.WarehouseID,
				"error":          err.Error(),
			}).Error("Failed to restore stock for expired reservation")
			continue
		}
		count++
	}
	return count, nil
}

// Get returns a reservation by id
func (m *Manager) Get(ctx context.Context, reservationID string) (*Reservation, error) {
	return m.repo.Get(ctx, reservationID)
}

// List returns reservations for monitoring dashboards
func (m *Manager) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	return m.repo.List(ctx, filter)
}

// resolveLostTransition handles a commit CAS that matched no row: if a
// concurrent retry already committed the same order the commit succeeded,
// otherwise the state is reported as-is.
func (m *Manager) resolveLostTransition(ctx context.Context, reservationID string, orderID uint, amount int64) (*Reservation, error) {
	current, err := m.repo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCommitted && current.OrderID != nil && *current.OrderID == orderID {
		if err := m.settle(ctx, orderID, current.WarehouseID, amount); err != nil {
			return nil, err
		}
		return current, nil
	}
	if current.Status == StatusExpired {
		return nil, ErrExpired
	}
	return nil, &InvalidStateError{ID: reservationID, Status: current.Status}
}

func (m *Manager) settle(ctx context.Context, orderID, warehouseID uint, amount int64) error {
	if m.settler == nil {
		return nil
	}
	if err := m.settler.RecordSettlement(ctx, orderID, warehouseID, amount); err != nil {
		return fmt.Errorf("failed to record settlement: %w", err)
	}
	return nil
}

// restoreStock returns every held line to the available pool. Positive
// deltas cannot fail on the stock >= 0 guard; a missing record would be a
// data error and is surfaced.
func (m *Manager) restoreStock(ctx context.Context, res *Reservation) error {
	adjustments := make([]inventory.Adjustment, 0, len(res.Items))
	for _, item := range res.Items {
		adjustments = append(adjustments, inventory.Adjustment{ProductID: item.ProductID, Delta: item.Quantity})
	}
	err := m.stock.AdjustBatch(ctx, res.WarehouseID, adjustments, restoreReference(res.ID))
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		return fmt.Errorf("unexpected shortfall restoring reservation %s: %w", res.ID, err)
	}
	return err
}

func holdReference(reservationID string) string {
	return "hold:" + reservationID
}

func restoreReference(reservationID string) string {
	return "restore:" + reservationID
}
