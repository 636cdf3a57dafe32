// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

// PaymentOutcome is the opaque signal from the payment collaborator
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "succeeded"
	PaymentFailed    PaymentOutcome = "failed"
	PaymentTimeout   PaymentOutcome = "timeout"
)

// ErrUnknownOutcome indicates an unrecognized payment outcome value
var ErrUnknownOutcome = errors.New("unknown payment outcome")

// Service coordinates checkout: resolve the warehouse, hold the cart, await
// the payment signal, then commit or release. It owns no stock logic itself;
// it enforces the ordering "reserve before pay, commit or release after
// pay". Warehouse selection is request-scoped: each checkout resolves from
// its own pincode, never from session state.
type Service struct {
	resolver     warehouse.Resolver
	reservations *reservation.Manager
	orders       order.Repository
	config       *config.Config
	logger       *logrus.Logger
}

// NewService creates a new checkout coordinator
func NewService(resolver warehouse.Resolver, reservations *reservation.Manager, orders order.Repository, cfg *config.Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		resolver:     resolver,
		reservations: reservations,
		orders:       orders,
		config:       cfg,
		logger:       logger,
	}
}

// CartLine is one checkout line with its catalog price
type CartLine struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
	UnitPrice int64 `json:"unit_price" binding:"required,gt=0"` // paise
}

// CheckoutRequest represents a checkout start request
type CheckoutRequest struct {
	Pincode string     `json:"pincode" binding:"required"`
	Items   []CartLine `json:"items" binding:"required,dive"`
}

// CheckoutSession is returned to the caller to proceed to payment
type CheckoutSession struct {
	OrderID       uint      `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	ReservationID string    `json:"reservation_id"`
	WarehouseID   uint      `json:"warehouse_id"`
	TotalAmount   int64     `json:"total_amount"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// PaymentResultRequest carries the payment collaborator's outcome signal
type PaymentResultRequest struct {
	ReservationID string         `json:"reservation_id" binding:"required"`
	Outcome       PaymentOutcome `json:"outcome" binding:"required"`
}

// StartCheckout resolves the serving warehouse, holds stock for the whole
// cart and records a pending order. On a stock shortfall no reservation is
// created and the per-item detail is returned unchanged.
func (s *Service) StartCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	w, err := s.resolver.Resolve(ctx, req.Pincode)
	if err != nil {
		return nil, err
	}

	lines := make([]reservation.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, reservation.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	res, err := s.reservations.Hold(ctx, w.ID, lines)
	if err != nil {
		return nil, err
	}

	ord := &order.Order{
		WarehouseID:   w.ID,
		Pincode:       req.Pincode,
		ReservationID: res.ID,
		Status:        order.OrderStatusPending,
		PaymentStatus: order.PaymentStatusPending,
	}
	for _, item := range req.Items {
		ord.Items = append(ord.Items, order.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.UnitPrice,
			TotalPrice: item.UnitPrice * int64(item.Quantity),
		})
		ord.SubtotalAmount += item.UnitPrice * int64(item.Quantity)
	}
	ord.TotalAmount = ord.SubtotalAmount

	if err := s.orders.Create(ctx, ord); err != nil {
		// Undo the hold so the stock is not parked on a dead checkout
		if _, relErr := s.reservations.Release(ctx, res.ID); relErr != nil {
			s.logger.WithFields(logrus.Fields{
				"reservation_id": res.ID,
				"error":          relErr.Error(),
			}).Error("Failed to release reservation after order persist failure")
		}
		return nil, err
	}

	return &CheckoutSession{
		OrderID:       ord.ID,
		OrderNumber:   ord.OrderNumber,
		ReservationID: res.ID,
		WarehouseID:   w.ID,
		TotalAmount:   ord.TotalAmount,
		ExpiresAt:     res.ExpiresAt,
	}, nil
}

// HandlePaymentResult applies the payment outcome: success commits the
// reservation and settles the warehouse credit, failure or timeout releases
// the held stock.
func (s *Service) HandlePaymentResult(ctx context.Context, req *PaymentResultRequest) (*order.Order, error) {
	ord, err := s.orders.GetByReservationID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	switch req.Outcome {
	case PaymentSucceeded:
		return s.confirm(ctx, ord)
	case PaymentFailed, PaymentTimeout:
		return s.cancel(ctx, ord)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, req.Outcome)
	}
}

func (s *Service) confirm(ctx context.Context, ord *order.Order) (*order.Order, error) {
	if _, err := s.reservations.Commit(ctx, ord.ReservationID, ord.ID, ord.TotalAmount); err != nil {
		if errors.Is(err, reservation.ErrExpired) {
			// Stock may already be restored by the sweep; the checkout is dead
			if updErr := s.orders.UpdateStatus(ctx, ord.ID, order.OrderStatusCancelled, order.PaymentStatusFailed); updErr != nil {
				s.logger.WithFields(logrus.Fields{
					"order_id": ord.ID,
					"error":    updErr.Error(),
				}).Error("Failed to cancel order for expired reservation")
			}
		}
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, ord.ID, order.OrderStatusConfirmed, order.PaymentStatusPaid); err != nil {
		return nil, err
	}
	ord.Status = order.OrderStatusConfirmed
	ord.PaymentStatus = order.PaymentStatusPaid
	return ord, nil
}

func (s *Service) cancel(ctx context.Context, ord *order.Order) (*order.Order, error) {
	_, err := s.reservations.Release(ctx, ord.ReservationID)
	var invalid *reservation.InvalidStateError
	switch {
	case errors.As(err, &invalid) && invalid.Status == reservation.StatusReleased:
		// Retried cancellation; the stock was already restored
		err = nil
	case errors.Is(err, reservation.ErrExpired):
		// The sweep restores the stock; the checkout still ends cancelled
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, ord.ID, order.OrderStatusCancelled, order.PaymentStatusFailed); err != nil {
		return nil, err
	}
	ord.Status = order.OrderStatusCancelled
	ord.PaymentStatus = order.PaymentStatusFailed
	return ord, nil
}

// GetOrder returns an order by id for the checkout flow
func (s *Service) GetOrder(ctx context.Context, id uint) (*order.Order, error) {
	return s.orders.GetByID(ctx, id)
}
