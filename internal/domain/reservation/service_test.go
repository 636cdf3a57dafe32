// internal/domain/reservation/service_test.go
package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
)

// countingSettler records settlement calls for assertions
type countingSettler struct {
	mu    sync.Mutex
	calls []uint
}

func (s *countingSettler) RecordSettlement(ctx context.Context, orderID, warehouseID uint, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, orderID)
	return nil
}

type testEnv struct {
	manager *Manager
	stock   *inventory.Service
	settler *countingSettler
}

func newTestEnv(t *testing.T, ttl time.Duration) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Reservation: config.ReservationConfig{
			TTL:           ttl,
			SweepInterval: time.Minute,
			SweepBatch:    100,
		},
		Inventory: config.InventoryConfig{
			MaxRetries:  3,
			BaseBackoff: time.Millisecond,
		},
	}
	stock := inventory.NewService(inventory.NewMemoryRepository(), cfg)
	settler := &countingSettler{}
	manager := NewManager(NewMemoryRepository(), stock, settler, cfg, nil)

	_, err := stock.SetInitialStock(context.Background(), 1, 100, 10)
	require.NoError(t, err)
	_, err = stock.SetInitialStock(context.Background(), 1, 200, 5)
	require.NoError(t, err)

	return &testEnv{manager: manager, stock: stock, settler: settler}
}

func (e *testEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	stock, err := e.stock.GetStock(context.Background(), 1, productID)
	require.NoError(t, err)
	return stock
}

func TestHoldDecrementsStockImmediately(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{
		{ProductID: 100, Quantity: 4},
		{ProductID: 200, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, res.Status)
	assert.NotEmpty(t, res.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.ExpiresAt, time.Second)

	assert.Equal(t, 6, env.stockOf(t, 100))
	assert.Equal(t, 3, env.stockOf(t, 200))
}

func TestHoldMergesDuplicateLines(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{
		{ProductID: 100, Quantity: 2},
		{ProductID: 100, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 5, res.Items[0].Quantity)
	assert.Equal(t, 5, env.stockOf(t, 100))
}

func TestHoldShortfallClaimsNothing(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	_, err := env.manager.Hold(context.Background(), 1, []Line{
		{ProductID: 100, Quantity: 4},
		{ProductID: 200, Quantity: 6},
	})
	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, uint(200), insufficient.Items[0].ProductID)

	// First line must not have been claimed
	assert.Equal(t, 10, env.stockOf(t, 100))
	assert.Equal(t, 5, env.stockOf(t, 200))
}

func TestHoldRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	_, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.manager.Hold(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCommitSettlesExactlyOnce(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	committed, err := env.manager.Commit(context.Background(), res.ID, 42, 19900)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, committed.Status)
	require.NotNil(t, committed.OrderID)
	assert.Equal(t, uint(42), *committed.OrderID)

	// Stock stays decremented after commit
	assert.Equal(t, 6, env.stockOf(t, 100))
	assert.Equal(t, []uint{42}, env.settler.calls)
}

func TestCommitRetrySameOrderIsIdempotent(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	_, err = env.manager.Commit(context.Background(), res.ID, 42, 19900)
	require.NoError(t, err)

	// The retry succeeds and re-invokes the settler, whose own idempotency
	// prevents double booking
	again, err := env.manager.Commit(context.Background(), res.ID, 42, 19900)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, again.Status)
	assert.Equal(t, 6, env.stockOf(t, 100))
}

func TestCommitDifferentOrderAfterCommitFails(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	_, err = env.manager.Commit(context.Background(), res.ID, 42, 19900)
	require.NoError(t, err)

	_, err = env.manager.Commit(context.Background(), res.ID, 43, 19900)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusCommitted, invalid.Status)
}

func TestReleaseRestoresStockOnce(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)
	assert.Equal(t, 6, env.stockOf(t, 100))

	released, err := env.manager.Release(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, released.Status)
	assert.Equal(t, 10, env.stockOf(t, 100))

	// A second release must not restore again
	_, err = env.manager.Release(context.Background(), res.ID)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusReleased, invalid.Status)
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestCommitAfterReleaseFails(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	_, err = env.manager.Release(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = env.manager.Commit(context.Background(), res.ID, 42, 19900)
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, env.settler.calls)
}

func TestCommitAfterExpiryFails(t *testing.T) {
	env := newTestEnv(t, -time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	_, err = env.manager.Commit(context.Background(), res.ID, 42, 19900)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Empty(t, env.settler.calls)
}

func TestReleaseAfterExpiryFails(t *testing.T) {
	env := newTestEnv(t, -time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	_, err = env.manager.Release(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCommitAfterSweepFails(t *testing.T) {
	env := newTestEnv(t, -time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	count, err := env.manager.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, count)
	assert.Equal(t, 10, env.stockOf(t, 100))

	// The reservation is now Expired, not Held; the caller must still see
	// the expiry error, not a generic state error
	_, err = env.manager.Commit(context.Background(), res.ID, 42, 19900)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Empty(t, env.settler.calls)
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestReleaseAfterSweepFails(t *testing.T) {
	env := newTestEnv(t, -time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	count, err := env.manager.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = env.manager.Release(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrExpired)

	// The sweep's restore must remain the only one
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestSweepExpiresAndRestores(t *testing.T) {
	env := newTestEnv(t, -time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)
	assert.Equal(t, 6, env.stockOf(t, 100))

	count, err := env.manager.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 10, env.stockOf(t, 100))

	swept, err := env.manager.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, swept.Status)

	// Second sweep finds nothing and restores nothing
	count, err = env.manager.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 10, env.stockOf(t, 100))
}

func TestSweepSkipsUnexpiredAndTerminal(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	held, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 2}})
	require.NoError(t, err)

	committed, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 2}})
	require.NoError(t, err)
	_, err = env.manager.Commit(context.Background(), committed.ID, 42, 100)
	require.NoError(t, err)

	count, err := env.manager.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	current, err := env.manager.Get(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, current.Status)
}

func TestConcurrentTerminalTransitionsResolveToOne(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.Hold(context.Background(), 1, []Line{{ProductID: 100, Quantity: 4}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	commits, releases := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				if _, err := env.manager.Commit(context.Background(), res.ID, 42, 100); err == nil {
					mu.Lock()
					commits++
					mu.Unlock()
				}
			} else {
				if _, err := env.manager.Release(context.Background(), res.ID); err == nil {
					mu.Lock()
					releases++
					mu.Unlock()
				}
			}
		}(i)
	}
	wg.Wait()

	// Either the commit side or the release side won; never both
	if releases > 0 {
		assert.Zero(t, commits)
		assert.Equal(t, 10, env.stockOf(t, 100))
	} else {
		assert.NotZero(t, commits)
		assert.Equal(t, 6, env.stockOf(t, 100))
	}
}
