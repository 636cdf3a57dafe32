// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/ledger"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

type testEnv struct {
	checkout  *Service
	stock     *inventory.Service
	ledger    *ledger.Service
	orders    order.Repository
	warehouse *warehouse.Warehouse
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Reservation: config.ReservationConfig{
			TTL:           15 * time.Minute,
			SweepInterval: time.Minute,
			SweepBatch:    100,
		},
		Inventory: config.InventoryConfig{
			MaxRetries:  3,
			BaseBackoff: time.Millisecond,
		},
	}

	warehouseRepo := warehouse.NewMemoryRepository()
	w := &warehouse.Warehouse{
		Name:     "Central",
		Code:     "CEN",
		IsActive: true,
		Priority: 10,
		ServiceablePincodes: []warehouse.ServiceablePincode{
			{Pincode: "560001"},
		},
	}
	require.NoError(t, warehouseRepo.Create(context.Background(), w))

	stockSvc := inventory.NewService(inventory.NewMemoryRepository(), cfg)
	_, err := stockSvc.SetInitialStock(context.Background(), w.ID, 100, 10)
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(ledger.NewMemoryRepository(), cfg)
	manager := reservation.NewManager(
		reservation.NewMemoryRepository(), stockSvc, ledger.NewOrderSettler(ledgerSvc), cfg, nil)

	orders := order.NewMemoryRepository()
	svc := NewService(warehouse.NewDirectory(warehouseRepo, nil), manager, orders, cfg, nil)

	return &testEnv{
		checkout:  svc,
		stock:     stockSvc,
		ledger:    ledgerSvc,
		orders:    orders,
		warehouse: w,
	}
}

func (e *testEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	stock, err := e.stock.GetStock(context.Background(), e.warehouse.ID, productID)
	require.NoError(t, err)
	return stock
}

func TestStartCheckoutHoldsStockAndCreatesOrder(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items: []CartLine{
			{ProductID: 100, Quantity: 3, UnitPrice: 2500},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, env.warehouse.ID, session.WarehouseID)
	assert.Equal(t, int64(7500), session.TotalAmount)
	assert.NotEmpty(t, session.ReservationID)
	assert.NotEmpty(t, session.OrderNumber)
	assert.Equal(t, 7, env.stockOf(t, 100))

	ord, err := env.checkout.GetOrder(context.Background(), session.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPending, ord.Status)
	assert.Equal(t, order.PaymentStatusPending, ord.PaymentStatus)
	assert.Equal(t, "560001", ord.Pincode)
}

func TestStartCheckoutNotServiceable(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "110001",
		Items:   []CartLine{{ProductID: 100, Quantity: 1, UnitPrice: 2500}},
	})
	var notServiceable *warehouse.NotServiceableError
	require.ErrorAs(t, err, &notServiceable)

	// No stock may be claimed on a failed resolution
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestPaymentSuccessConfirmsAndSettles(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 4, UnitPrice: 2500}},
	})
	require.NoError(t, err)

	ord, err := env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: session.ReservationID,
		Outcome:       PaymentSucceeded,
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusConfirmed, ord.Status)
	assert.Equal(t, order.PaymentStatusPaid, ord.PaymentStatus)

	// Sold units stay deducted, and the warehouse was credited once
	assert.Equal(t, 6, env.stockOf(t, 100))
	balance, err := env.ledger.CurrentBalance(context.Background(), env.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

func TestPaymentSuccessRetryDoesNotDoubleSettle(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 4, UnitPrice: 2500}},
	})
	require.NoError(t, err)

	result := &PaymentResultRequest{ReservationID: session.ReservationID, Outcome: PaymentSucceeded}
	_, err = env.checkout.HandlePaymentResult(context.Background(), result)
	require.NoError(t, err)
	_, err = env.checkout.HandlePaymentResult(context.Background(), result)
	require.NoError(t, err)

	balance, err := env.ledger.CurrentBalance(context.Background(), env.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

func TestPaymentFailureReleasesAndCancels(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 4, UnitPrice: 2500}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, env.stockOf(t, 100))

	ord, err := env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: session.ReservationID,
		Outcome:       PaymentFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, ord.Status)
	assert.Equal(t, order.PaymentStatusFailed, ord.PaymentStatus)
	assert.Equal(t, 10, env.stockOf(t, 100))

	// Nothing was settled for a failed payment
	balance, err := env.ledger.CurrentBalance(context.Background(), env.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestPaymentTimeoutBehavesLikeFailure(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 4, UnitPrice: 2500}},
	})
	require.NoError(t, err)

	ord, err := env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: session.ReservationID,
		Outcome:       PaymentTimeout,
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, ord.Status)
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestCancelRetryIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 4, UnitPrice: 2500}},
	})
	require.NoError(t, err)

	result := &PaymentResultRequest{ReservationID: session.ReservationID, Outcome: PaymentFailed}
	_, err = env.checkout.HandlePaymentResult(context.Background(), result)
	require.NoError(t, err)
	_, err = env.checkout.HandlePaymentResult(context.Background(), result)
	require.NoError(t, err)

	// Stock restored exactly once
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestUnknownOutcomeRejected(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 1, UnitPrice: 2500}},
	})
	require.NoError(t, err)

	_, err = env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: session.ReservationID,
		Outcome:       "refunded",
	})
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestPaymentResultForUnknownReservation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: "missing",
		Outcome:       PaymentSucceeded,
	})
	assert.ErrorIs(t, err, order.ErrNotFound)
}

// Two shoppers compete for the last units: the second hold fails with the
// exact shortfall, and a cancellation frees the units for a third shopper.
func TestCompetingCheckoutsOverLimitedStock(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 6, UnitPrice: 2500}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, env.stockOf(t, 100))

	_, err = env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 5, UnitPrice: 2500}},
	})
	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, 5, insufficient.Items[0].Requested)
	assert.Equal(t, 4, insufficient.Items[0].Available)

	// First shopper's payment falls through
	_, err = env.checkout.HandlePaymentResult(context.Background(), &PaymentResultRequest{
		ReservationID: first.ReservationID,
		Outcome:       PaymentFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, env.stockOf(t, 100))

	// Third shopper can now take 8
	_, err = env.checkout.StartCheckout(context.Background(), &CheckoutRequest{
		Pincode: "560001",
		Items:   []CartLine{{ProductID: 100, Quantity: 8, UnitPrice: 2500}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, env.stockOf(t, 100))
}
