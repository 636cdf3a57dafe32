// internal/domain/ledger/memory.go
package ledger

import (
	"context"
	"sync"
	"time"
)

type referenceKey struct {
	category  Category
	reference string
}

// MemoryRepository is an in-memory Repository with the same atomicity and
// idempotency guarantees as the gorm implementation, used in tests and
// local tooling
type MemoryRepository struct {
	mu         sync.Mutex
	entries    map[uint][]LedgerEntry
	references map[referenceKey]struct{}
	nextID     uint
}

// NewMemoryRepository creates an empty in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries:    make(map[uint][]LedgerEntry),
		references: make(map[referenceKey]struct{}),
		nextID:     1,
	}
}

func (r *MemoryRepository) Append(ctx context.Context, entry *LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := referenceKey{entry.Category, entry.ReferenceID}
	if _, exists := r.references[key]; exists {
		return &DuplicateReferenceError{Category: entry.Category, ReferenceID: entry.ReferenceID}
	}

	balance := r.latestBalanceLocked(entry.WarehouseID)
	if entry.Type == EntryTypeDebit && entry.Amount > balance {
		return &InsufficientBalanceError{
			WarehouseID: entry.WarehouseID,
			Requested:   entry.Amount,
			Available:   balance,
		}
	}

	entry.ID = r.nextID
	r.nextID++
	entry.BalanceAfter = balance + entry.Signed()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	r.entries[entry.WarehouseID] = append(r.entries[entry.WarehouseID], *entry)
	r.references[key] = struct{}{}
	return nil
}

func (r *MemoryRepository) LatestBalance(ctx context.Context, warehouseID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latestBalanceLocked(warehouseID), nil
}

func (r *MemoryRepository) latestBalanceLocked(warehouseID uint) int64 {
	entries := r.entries[warehouseID]
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].BalanceAfter
}

func (r *MemoryRepository) List(ctx context.Context, warehouseID uint, from, to *time.Time, limit int) ([]LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	entries := r.entries[warehouseID]
	var out []LedgerEntry
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := entries[i]
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && !e.CreatedAt.Before(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
