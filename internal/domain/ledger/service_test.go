// internal/domain/ledger/service_test.go
package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), &config.Config{})
}

func TestBalanceChainStartsAtZero(t *testing.T) {
	svc := newTestService()

	balance, err := svc.CurrentBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestBalanceAfterChains(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	e1, err := svc.RecordSettlement(ctx, 1, 1, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), e1.BalanceAfter)

	e2, err := svc.RecordSettlement(ctx, 2, 1, 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), e2.BalanceAfter)

	e3, err := svc.RecordPayout(ctx, 1, 60000, "payout-2026-01")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), e3.BalanceAfter)

	balance, err := svc.CurrentBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)
}

func TestBalancesAreIsolatedPerWarehouse(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RecordSettlement(ctx, 1, 1, 50000)
	require.NoError(t, err)

	balance, err := svc.CurrentBalance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestPayoutGatedOnBalance(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// Settle an order worth 500 rupees
	_, err := svc.RecordSettlement(ctx, 1, 1, 50000)
	require.NoError(t, err)

	// A 600 rupee payout must fail and book nothing
	_, err = svc.RecordPayout(ctx, 1, 60000, "payout-big")
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(60000), insufficient.Requested)
	assert.Equal(t, int64(50000), insufficient.Available)

	balance, err := svc.CurrentBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	// Draining the full balance is allowed
	entry, err := svc.RecordPayout(ctx, 1, 50000, "payout-full")
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.BalanceAfter)
}

func TestDuplicateSettlementRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RecordSettlement(ctx, 7, 1, 50000)
	require.NoError(t, err)

	_, err = svc.RecordSettlement(ctx, 7, 1, 50000)
	var dup *DuplicateReferenceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, CategoryOrderSettlement, dup.Category)
	assert.Equal(t, OrderReference(7), dup.ReferenceID)

	balance, err := svc.CurrentBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)
}

func TestSameReferenceDifferentCategoryAllowed(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: EntryTypeCredit, Category: CategoryAdjustment, Amount: 1000, ReferenceID: "ref-1",
	})
	require.NoError(t, err)

	_, err = svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: EntryTypeDebit, Category: CategoryPayout, Amount: 500, ReferenceID: "ref-1",
	})
	require.NoError(t, err)
}

func TestAppendValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: EntryTypeCredit, Category: CategoryAdjustment, Amount: 0, ReferenceID: "ref",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: EntryTypeCredit, Category: CategoryAdjustment, Amount: -5, ReferenceID: "ref",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: EntryTypeCredit, Category: CategoryAdjustment, Amount: 100, ReferenceID: "",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = svc.Append(ctx, &AppendRequest{
		WarehouseID: 1, Type: "TRANSFER", Category: CategoryAdjustment, Amount: 100, ReferenceID: "ref",
	})
	assert.Error(t, err)
}

func TestOrderSettlerSwallowsDuplicates(t *testing.T) {
	svc := newTestService()
	settler := NewOrderSettler(svc)
	ctx := context.Background()

	require.NoError(t, settler.RecordSettlement(ctx, 7, 1, 50000))
	// Retried settlement of the same order is success, not an error
	require.NoError(t, settler.RecordSettlement(ctx, 7, 1, 50000))

	balance, err := svc.CurrentBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)
}

func TestListEntriesNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RecordSettlement(ctx, 1, 1, 100)
	require.NoError(t, err)
	_, err = svc.RecordSettlement(ctx, 2, 1, 200)
	require.NoError(t, err)

	entries, err := svc.ListEntries(ctx, 1, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, OrderReference(2), entries[0].ReferenceID)
	assert.Equal(t, OrderReference(1), entries[1].ReferenceID)
}
